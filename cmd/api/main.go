package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/projectshelf-api/docs" // Swagger docs
	"github.com/redmonkez12/projectshelf-api/internal/auth"
	"github.com/redmonkez12/projectshelf-api/internal/config"
	"github.com/redmonkez12/projectshelf-api/internal/database"
	"github.com/redmonkez12/projectshelf-api/internal/email"
	httpServer "github.com/redmonkez12/projectshelf-api/internal/http"
	"github.com/redmonkez12/projectshelf-api/internal/logging"
	"github.com/redmonkez12/projectshelf-api/internal/project"
	"github.com/redmonkez12/projectshelf-api/internal/ratelimit"
	"github.com/redmonkez12/projectshelf-api/internal/storage"
	"github.com/redmonkez12/projectshelf-api/internal/user"
)

// @title           ProjectShelf API
// @version         1.0
// @description     Accounts with email OTP verification and password reset, plus the student project showcase.

// @host      localhost:4000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token. Browsers send the token cookie instead.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_type", cfg.Auth.TokenType,
	)

	ctx := context.Background()

	sqlDB, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(ctx, sqlDB); err != nil {
		return err
	}
	db := database.NewBunDB(sqlDB)

	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	tokenService, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	imageStore, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	emailService := email.NewService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.SenderEmail,
	)

	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.RateLimit.EmailCooldown)

	authService := auth.NewService(
		user.NewRepository(db),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokenService,
		emailService,
		imageStore,
		logger,
		cfg.Auth.SessionDuration,
	)
	projectService := project.NewService(project.NewRepository(db))

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		User:    auth.NewHandler(authService, rateLimiter, !cfg.Server.IsDevelopment()),
		Project: project.NewHandler(projectService),
		Guard:   auth.NewMiddleware(tokenService),
	}, logger)

	server := httpServer.NewServer(
		cfg.Server.Address(),
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		// emails queued by the last requests still go out
		authService.Wait()
	}

	return nil
}

func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenType == config.TokenTypePaseto {
		return auth.NewPasetoService(cfg.PasetoKey)
	}
	return auth.NewJWTService(cfg.JWTSecret)
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
