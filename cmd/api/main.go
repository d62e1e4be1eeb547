package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/config"
	"github.com/pageza/coffeeshop/backend/internal/database"
	"github.com/pageza/coffeeshop/backend/internal/logging"
	"github.com/pageza/coffeeshop/backend/internal/middleware"
	"github.com/pageza/coffeeshop/backend/internal/router"
	"github.com/pageza/coffeeshop/backend/internal/server"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config-path", "", "optional TOML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	log.WithField("environment", config.GetEnvironment()).Info("Starting coffee shop API")
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		stop()
		log.Fatalf("Server error: %v", err)
	}
	log.Info("Server stopped")
}

// run serves the API until ctx is cancelled. Connections opened here are
// closed before it returns.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	db, err := database.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close(db)

	if cfg.DBReset {
		err = database.Reset(db, log)
	} else {
		err = database.RunMigrations(db, log)
	}
	if err != nil {
		return fmt.Errorf("prepare database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg, log)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitWrites > 0 {
		limiter = middleware.NewWriteRateLimiter(redisClient, cfg.RateLimitWrites, log)
	}

	srv := server.New(cfg, router.Dependencies{
		Logger:    log,
		Validator: newAuthService(cfg, log, redisClient),
		Drinks:    service.NewDrinkService(db),
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
		WriteLimiter:   limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return srv.Start(ctx)
}
