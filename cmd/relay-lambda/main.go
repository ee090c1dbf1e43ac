package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	v1 "carbon-scribe/ipfs-relay/ipfs-relay-backend/api/v1"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/config"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/logging"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/relay"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		logger = zap.NewExample()
		logger.Warn("Falling back to example logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	uploadAPI, err := v1.SetupUploadAPI(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up upload API", zap.Error(err))
	}

	handler := relay.NewLambdaHandler(uploadAPI.Service, logger, cfg.Upload.MaxBytes)
	lambda.Start(handler.Handle)
}
