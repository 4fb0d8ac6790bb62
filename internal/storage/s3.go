// Package storage keeps profile images in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/redmonkez12/projectshelf-api/internal/config"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads objects and returns the URL they are served from
type S3Store struct {
	client    objectPutter
	bucket    string
	publicURL string
	newKey    func() string
}

// NewS3Store builds a client from cfg. Static credentials are used when an
// access key is configured, otherwise the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return newS3Store(client, cfg), nil
}

func newS3Store(client objectPutter, cfg config.StorageConfig) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: publicBaseURL(cfg),
		newKey:    func() string { return uuid.NewString() },
	}
}

// UploadProfileImage stores an image under users/<id>/ and returns its public URL
func (s *S3Store) UploadProfileImage(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.ReadSeeker) (string, error) {
	key := fmt.Sprintf("users/%s/%s%s", userID, s.newKey(), strings.ToLower(path.Ext(filename)))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}

// publicBaseURL is S3_PUBLIC_URL when set (a CDN), else derived from the endpoint
func publicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.S3PublicURL != "":
		return strings.TrimRight(cfg.S3PublicURL, "/")
	case cfg.S3Endpoint != "":
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
}
