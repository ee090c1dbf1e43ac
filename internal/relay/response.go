package relay

import (
	"encoding/json"
	"errors"
	"net/http"
)

// StatusFor maps a relay failure onto its HTTP status
func StatusFor(err error) int {
	var relayErr *RelayError
	if !errors.As(err, &relayErr) {
		return http.StatusInternalServerError
	}

	switch relayErr.Kind {
	case KindNoFileProvided:
		return http.StatusBadRequest
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the JSON error body for err
func ErrorBody(err error) ErrorResponse {
	var relayErr *RelayError
	if !errors.As(err, &relayErr) {
		return ErrorResponse{Error: "Something went wrong: " + err.Error()}
	}
	return ErrorResponse{Error: relayErr.Message, Details: relayErr.Details}
}

// MethodNotAllowed is the error used by adapters for non-POST requests
func MethodNotAllowed() error {
	return newRelayError(KindMethodNotAllowed, nil)
}

// WriteJSON writes payload as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
