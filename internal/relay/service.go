package relay

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"carbon-scribe/ipfs-relay/ipfs-relay-backend/pkg/storage"
)

// Service relays uploads to the pinning provider
type Service struct {
	client storage.IPFSClient
	logger *zap.Logger
}

// NewService creates a new relay service
func NewService(client storage.IPFSClient, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Relay pins one upload and returns its CID. An upload without bytes or
// without a file name is rejected before any outbound call.
func (s *Service) Relay(ctx context.Context, upload IncomingUpload) (*PinResult, error) {
	if len(upload.FileBytes) == 0 || upload.FileName == "" {
		return nil, newRelayError(KindNoFileProvided, nil)
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	pinned, err := s.client.PinFile(ctx, storage.PinFileRequest{
		Content:     upload.FileBytes,
		FileName:    upload.FileName,
		ContentType: contentType,
	})
	if err != nil {
		relayErr := newRelayError(KindUpstream, err)
		relayErr.Details = upstreamDetails(err)

		fields := []zap.Field{
			zap.String("file_name", upload.FileName),
			zap.Int("size", len(upload.FileBytes)),
			zap.Error(err),
		}
		var upstreamErr *storage.UpstreamError
		if errors.As(err, &upstreamErr) {
			fields = append(fields,
				zap.Int("upstream_status", upstreamErr.StatusCode),
				zap.ByteString("upstream_body", upstreamErr.Body))
		}
		s.logger.Error("Failed to upload to Pinata", fields...)
		return nil, relayErr
	}

	s.logger.Debug("Pinned file",
		zap.String("cid", pinned.IpfsHash),
		zap.String("file_name", upload.FileName),
		zap.Int("size", len(upload.FileBytes)))

	return &PinResult{CID: pinned.IpfsHash}, nil
}

// upstreamDetails picks the "details" value for a failed pin: the provider's
// JSON body verbatim, its raw text when not JSON, otherwise the error message.
func upstreamDetails(err error) any {
	var upstreamErr *storage.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.Err == nil && len(upstreamErr.Body) > 0 {
		if json.Valid(upstreamErr.Body) {
			return json.RawMessage(upstreamErr.Body)
		}
		return string(upstreamErr.Body)
	}
	return err.Error()
}
