package relay

import "fmt"

// Caller-facing error messages
const (
	MsgNoFileProvided   = "No file provided"
	MsgFormParse        = "Error parsing form data"
	MsgFileTooLarge     = "File too large"
	MsgUpstream         = "Failed to upload to Pinata"
	MsgMethodNotAllowed = "Method Not Allowed"
)

const defaultContentType = "application/octet-stream"

// IncomingUpload is the file extracted from an inbound multipart request
type IncomingUpload struct {
	FileBytes   []byte
	FileName    string
	ContentType string
}

// PinResult is the success body returned to the caller
type PinResult struct {
	CID string `json:"cid"`
}

// ErrorResponse is the failure body returned to the caller
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ErrorKind classifies relay failures
type ErrorKind string

const (
	KindNoFileProvided   ErrorKind = "no_file_provided"
	KindFormParse        ErrorKind = "form_parse"
	KindFileTooLarge     ErrorKind = "file_too_large"
	KindUpstream         ErrorKind = "upstream"
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
)

// RelayError is returned by parsing and relaying. Details carries the
// upstream payload for KindUpstream.
type RelayError struct {
	Kind    ErrorKind
	Message string
	Details any
	Err     error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func newRelayError(kind ErrorKind, err error) *RelayError {
	var msg string
	switch kind {
	case KindNoFileProvided:
		msg = MsgNoFileProvided
	case KindFormParse:
		msg = MsgFormParse
	case KindFileTooLarge:
		msg = MsgFileTooLarge
	case KindUpstream:
		msg = MsgUpstream
	case KindMethodNotAllowed:
		msg = MsgMethodNotAllowed
	}
	return &RelayError{Kind: kind, Message: msg, Err: err}
}
