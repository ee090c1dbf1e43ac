// Package api exposes the upload relay as a serverless function.
package api

import (
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	v1 "carbon-scribe/ipfs-relay/ipfs-relay-backend/api/v1"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/config"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/logging"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/relay"
)

const msgNotConfigured = "Upload relay is not configured"

var (
	initOnce sync.Once
	handler  http.Handler
	initErr  error
)

// Handler is the function entry point. Dependencies are built on the first
// POST and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := relay.MethodNotAllowed()
		relay.WriteJSON(w, relay.StatusFor(err), relay.ErrorBody(err))
		return
	}

	initOnce.Do(func() {
		handler, initErr = newHandler()
	})
	if initErr != nil {
		relay.WriteJSON(w, http.StatusInternalServerError, relay.ErrorResponse{Error: msgNotConfigured})
		return
	}

	handler.ServeHTTP(w, r)
}

func newHandler() (http.Handler, error) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return nil, err
	}

	uploadAPI, err := v1.SetupUploadAPI(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up upload API", zap.Error(err))
		return nil, fmt.Errorf("setup upload api: %w", err)
	}

	return relay.NewHTTPHandler(uploadAPI.Service, logger, cfg.Upload.MaxBytes), nil
}
