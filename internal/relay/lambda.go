package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// LambdaHandler serves uploads behind an API Gateway proxy integration
type LambdaHandler struct {
	service        *Service
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewLambdaHandler creates a new Lambda upload handler
func NewLambdaHandler(service *Service, logger *zap.Logger, maxUploadBytes int64) *LambdaHandler {
	return &LambdaHandler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Handle never returns an error to the runtime; every outcome is encoded
// as a JSON proxy response.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if !strings.EqualFold(req.HTTPMethod, http.MethodPost) {
		return h.fail(MethodNotAllowed())
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return h.fail(newRelayError(KindFormParse, err))
		}
		body = decoded
	}

	upload, err := ReadUpload(bytes.NewReader(body), headerValue(req, "Content-Type"), h.maxUploadBytes)
	if err != nil {
		h.logger.Warn("Rejected upload", zap.Error(err), zap.String("request_id", req.RequestContext.RequestID))
		return h.fail(err)
	}

	result, err := h.service.Relay(ctx, upload)
	if err != nil {
		return h.fail(err)
	}

	return h.respond(http.StatusOK, result)
}

func (h *LambdaHandler) fail(err error) (events.APIGatewayProxyResponse, error) {
	return h.respond(StatusFor(err), ErrorBody(err))
}

func (h *LambdaHandler) respond(status int, payload any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Failed to encode response"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

// headerValue looks a header up case-insensitively; API Gateway preserves
// whatever casing the client sent.
func headerValue(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	for k, v := range req.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
