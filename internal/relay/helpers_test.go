package relay

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carbon-scribe/ipfs-relay/ipfs-relay-backend/pkg/storage"
)

// MockIPFSClient is a mock implementation of the storage.IPFSClient interface
type MockIPFSClient struct {
	mock.Mock
}

func (m *MockIPFSClient) PinFile(ctx context.Context, file storage.PinFileRequest) (*storage.PinResponse, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PinResponse), args.Error(1)
}

type formFile struct {
	field       string
	fileName    string
	contentType string
	content     []byte
}

// multipartBody encodes files and plain fields into a multipart body
func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.fileName))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func helloFile() formFile {
	return formFile{field: "file", fileName: "hello.txt", contentType: "text/plain", content: []byte("hello world")}
}

func helloRequest() storage.PinFileRequest {
	return storage.PinFileRequest{Content: []byte("hello world"), FileName: "hello.txt", ContentType: "text/plain"}
}
