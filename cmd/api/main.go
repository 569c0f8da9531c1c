package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/log"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/server"
	"github.com/platefeed/backend/internal/service"
)

func main() {
	ctx := context.Background()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if err := log.SetLevel(level); err != nil {
			log.Error(ctx, "invalid log level", "level", level, "error", err)
			os.Exit(1)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Token revocation degrades to a no-op without redis.
		log.Error(ctx, "redis unavailable, continuing without token revocation", "error", err)
		redisClient = nil
	}

	var imageService *service.ImageService
	if cfg.AWSRegion != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Error(ctx, "failed to configure object storage", "error", err)
			os.Exit(1)
		}
		imageService = service.NewImageService(s3Config)
	}

	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	engine := router.SetupRouter(router.NewHandlers(db, authService, imageService))
	srv := server.New(cfg, engine)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Error(ctx, "server error", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info(ctx, "received signal", "signal", sig.String())
	}

	log.Info(ctx, "shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(ctx, "server shutdown error", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "server stopped")
}
