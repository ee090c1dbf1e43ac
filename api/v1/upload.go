package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/config"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/internal/relay"
	"carbon-scribe/ipfs-relay/ipfs-relay-backend/pkg/storage"
)

// UploadAPI holds the upload API dependencies
type UploadAPI struct {
	Handler *relay.Handler
	Service *relay.Service
	Client  storage.IPFSClient
}

// SetupUploadAPI sets up the upload API with all dependencies
func SetupUploadAPI(cfg *config.Config, logger *zap.Logger) (*UploadAPI, error) {
	// Create pinning client
	client, err := storage.NewPinataClient(
		cfg.Pinata.Credentials(),
		storage.WithEndpoint(cfg.Pinata.Endpoint),
		storage.WithHTTPClient(&http.Client{Timeout: cfg.Pinata.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pinata client: %w", err)
	}

	// Create service
	service := relay.NewService(client, logger)

	// Create handler
	handler := relay.NewHandler(service, logger, cfg.Upload.MaxBytes)

	return &UploadAPI{
		Handler: handler,
		Service: service,
		Client:  client,
	}, nil
}

// RegisterUploadRoutes registers the upload routes on the router group
func RegisterUploadRoutes(router *gin.RouterGroup, api *UploadAPI) {
	api.Handler.RegisterRoutes(router)
}
