package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// JWTService signs session tokens with HS256 using a server secret
type JWTService struct {
	secret []byte
	now    func() time.Time
}

func NewJWTService(secret []byte) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &JWTService{secret: secret, now: time.Now}, nil
}

func (s *JWTService) CreateToken(userID uuid.UUID, duration time.Duration) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
		UserID: userID.String(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &jwtClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	result := &TokenClaims{
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	return result, nil
}
