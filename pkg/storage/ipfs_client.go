package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// PinataPinFileURL is the Pinata endpoint that stores a file on IPFS
const PinataPinFileURL = "https://api.pinata.cloud/pinning/pinFileToIPFS"

const defaultContentType = "application/octet-stream"

// ErrMissingCredentials is returned when the Pinata key or secret is empty
var ErrMissingCredentials = errors.New("pinata api key and secret are required")

type IPFSClient interface {
	PinFile(ctx context.Context, file PinFileRequest) (*PinResponse, error)
}

// Credentials holds the two static Pinata API headers
type Credentials struct {
	APIKey    string
	APISecret string
}

// Validate reports whether both halves of the key pair are set
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.APISecret) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// PinFileRequest is a single in-memory file to pin
type PinFileRequest struct {
	Content     []byte
	FileName    string
	ContentType string
}

// PinResponse is the JSON body Pinata returns on success
type PinResponse struct {
	IpfsHash    string `json:"IpfsHash"`
	PinSize     int64  `json:"PinSize"`
	Timestamp   string `json:"Timestamp"`
	IsDuplicate bool   `json:"isDuplicate,omitempty"`
}

// UpstreamError describes a failed pin call. Body is set when Pinata
// answered with a non-2xx status; Err is set for transport and decode failures.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("pinata returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// PinataClient pins files through the Pinata pinning API
type PinataClient struct {
	endpoint    string
	credentials Credentials
	httpClient  *http.Client
}

// PinataOption customizes a PinataClient
type PinataOption func(*PinataClient)

// WithEndpoint overrides the pinFileToIPFS URL
func WithEndpoint(endpoint string) PinataOption {
	return func(c *PinataClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP client used for outbound calls
func WithHTTPClient(client *http.Client) PinataOption {
	return func(c *PinataClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewPinataClient creates a Pinata client. Missing credentials fail here
// rather than on the first upload.
func NewPinataClient(credentials Credentials, opts ...PinataOption) (*PinataClient, error) {
	if err := credentials.Validate(); err != nil {
		return nil, err
	}

	c := &PinataClient{
		endpoint:    PinataPinFileURL,
		credentials: credentials,
		httpClient:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PinFile uploads the file as a single multipart part named "file" and
// returns Pinata's response. Exactly one request is made.
func (c *PinataClient) PinFile(ctx context.Context, file PinFileRequest) (*PinResponse, error) {
	body, contentType, err := encodeFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build pinata request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("pinata_api_key", c.credentials.APIKey)
	req.Header.Set("pinata_secret_api_key", c.credentials.APISecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("pinata request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read pinata response: %w", err),
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: respBody}
	}

	var pinned PinResponse
	if err := json.Unmarshal(respBody, &pinned); err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode pinata response: %w", err),
		}
	}
	if pinned.IpfsHash == "" {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        errors.New("pinata response missing IpfsHash"),
		}
	}

	return &pinned, nil
}

func encodeFile(file PinFileRequest) (io.Reader, string, error) {
	contentType := file.ContentType
	if contentType == "" || strings.ContainsAny(contentType, "\r\n") {
		contentType = defaultContentType
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// FormatMediaType RFC 2231-encodes control and non-ASCII bytes, so a
	// caller-supplied name cannot break out of the header line.
	disposition := mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": file.FileName,
	})
	if disposition == "" {
		return nil, "", fmt.Errorf("invalid file name %q", file.FileName)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", disposition)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
