package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeJWT    = "jwt"
	TokenTypePaseto = "paseto"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Email     EmailConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins for cookie auth
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ChannelBinding string // "require" for Neon DB, empty for local
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	TokenType string // jwt or paseto
	JWTSecret []byte
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey       []byte
	SessionDuration time.Duration
	BcryptCost      int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

type StorageConfig struct {
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string // base URL images are served from
	S3UsePathStyle bool
}

type RateLimitConfig struct {
	MaxRequests   int
	Window        time.Duration
	EmailCooldown time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "4000"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins: getSliceEnv("TRUSTED_ORIGINS", []string{
				"http://localhost:5173",
				"https://projectshelf.netlify.app",
				"https://project-shelf.vercel.app",
			}),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "projectshow"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ChannelBinding: getEnv("DB_CHANNEL_BINDING", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenType:       strings.ToLower(getEnv("AUTH_TOKEN_TYPE", TokenTypeJWT)),
			JWTSecret:       []byte(getEnv("JWT_SECRET", "")),
			PasetoKey:       []byte(getEnv("PASETO_KEY", "")),
			SessionDuration: 24 * time.Hour,
			BcryptCost:      getIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASS", ""),
			SenderEmail:  getEnv("SENDER_EMAIL", ""),
		},
		Storage: StorageConfig{
			S3Bucket:       getEnv("S3_BUCKET", "projectshelf"),
			S3Region:       getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:     getEnv("S3_ENDPOINT", ""),
			S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
			S3PublicURL:    getEnv("S3_PUBLIC_URL", ""),
			S3UsePathStyle: getBoolEnv("S3_USE_PATH_STYLE", false),
		},
		RateLimit: RateLimitConfig{
			MaxRequests:   getIntEnv("RATE_LIMIT_MAX", 10),
			Window:        getDurationEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
			EmailCooldown: getDurationEnv("EMAIL_COOLDOWN", 2*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that cannot fall back to a default
func (c *Config) Validate() error {
	switch c.Auth.TokenType {
	case TokenTypeJWT:
		if len(c.Auth.JWTSecret) == 0 {
			return fmt.Errorf("JWT_SECRET is required when AUTH_TOKEN_TYPE=%s", TokenTypeJWT)
		}
	case TokenTypePaseto:
		// v4.local needs a 32 byte symmetric key
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_TYPE %q", c.Auth.TokenType)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimit.MaxRequests)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Address returns the listen address (:port)
func (c *ServerConfig) Address() string {
	return ":" + c.Port
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return b
}

// getDurationEnv reads a whole number of seconds
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
