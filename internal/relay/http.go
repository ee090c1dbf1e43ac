package relay

import (
	"net/http"

	"go.uber.org/zap"
)

// NewHTTPHandler returns a single-endpoint net/http handler for hosts that
// invoke a plain function per request.
func NewHTTPHandler(service *Service, logger *zap.Logger, maxUploadBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			err := MethodNotAllowed()
			WriteJSON(w, StatusFor(err), ErrorBody(err))
			return
		}

		upload, err := ParseRequest(r, maxUploadBytes)
		if err != nil {
			logger.Warn("Rejected upload", zap.Error(err))
			WriteJSON(w, StatusFor(err), ErrorBody(err))
			return
		}

		result, err := service.Relay(r.Context(), upload)
		if err != nil {
			WriteJSON(w, StatusFor(err), ErrorBody(err))
			return
		}

		WriteJSON(w, http.StatusOK, result)
	})
}
