package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	v1 "carbon-scribe/ipfs-relay/ipfs-relay-backend/api/v1"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/config"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/logging"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/server"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		logger = zap.NewExample()
		logger.Warn("Falling back to example logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize Upload Module
	uploadAPI, err := v1.SetupUploadAPI(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up upload API", zap.Error(err))
	}

	// Setup Router
	router := server.NewRouter(cfg.CORS, logger)
	api := router.Group("/api")
	{
		v1.RegisterUploadRoutes(api, uploadAPI)
	}

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	logger.Info("Backend server running", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
