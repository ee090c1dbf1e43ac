package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the upload route on a gin router
type Handler struct {
	service        *Service
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandler creates a new upload handler
func NewHandler(service *Service, logger *zap.Logger, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers upload routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", h.upload)
}

// upload handles POST /api/upload
func (h *Handler) upload(c *gin.Context) {
	upload, err := ParseRequest(c.Request, h.maxUploadBytes)
	if err != nil {
		h.logger.Warn("Rejected upload", zap.Error(err))
		c.JSON(StatusFor(err), ErrorBody(err))
		return
	}

	result, err := h.service.Relay(c.Request.Context(), upload)
	if err != nil {
		c.JSON(StatusFor(err), ErrorBody(err))
		return
	}

	c.JSON(http.StatusOK, result)
}
