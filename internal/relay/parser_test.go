package relay

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestExtractsFile(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{"description": "greeting"}, helloFile())
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	upload, err := ParseRequest(req, 0)

	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), upload.FileBytes)
	assert.Equal(t, "hello.txt", upload.FileName)
	assert.Equal(t, "text/plain", upload.ContentType)
}

func TestReadUploadSkipsOtherParts(t *testing.T) {
	body, contentType := multipartBody(t, nil,
		formFile{field: "avatar", fileName: "me.png", contentType: "image/png", content: []byte("png")},
		formFile{field: "file", fileName: "doc.pdf", content: []byte("%PDF-1.7")},
	)

	upload, err := ReadUpload(body, contentType, 0)

	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", upload.FileName)
	assert.Equal(t, "application/octet-stream", upload.ContentType)
	assert.Equal(t, []byte("%PDF-1.7"), upload.FileBytes)
}

func TestReadUploadKeepsFileNameAsSent(t *testing.T) {
	body, contentType := multipartBody(t, nil,
		formFile{field: "file", fileName: "dir/a.txt", contentType: "text/plain", content: []byte("nested")},
	)

	upload, err := ReadUpload(body, contentType, 0)

	require.NoError(t, err)
	assert.Equal(t, "dir/a.txt", upload.FileName)
	assert.Equal(t, []byte("nested"), upload.FileBytes)
}

func TestReadUploadDecodesExtendedFileName(t *testing.T) {
	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename*=UTF-8''a%0D%0AX-Injected%3A%20yes%0D%0A.txt\r\n" +
		"\r\n" +
		"payload\r\n" +
		"--b--\r\n"

	upload, err := ReadUpload(strings.NewReader(body), "multipart/form-data; boundary=b", 0)

	require.NoError(t, err)
	assert.Equal(t, "a\r\nX-Injected: yes\r\n.txt", upload.FileName)
	assert.Equal(t, "application/octet-stream", upload.ContentType)
}

func TestReadUploadFailures(t *testing.T) {
	noFileBody, noFileType := multipartBody(t, map[string]string{"note": "no attachment"})
	plainFieldBody, plainFieldType := multipartBody(t, map[string]string{"file": "just text"})
	emptyBody, emptyType := multipartBody(t, nil, formFile{field: "file", fileName: "empty.txt", content: nil})
	bigBody, bigType := multipartBody(t, nil, formFile{field: "file", fileName: "big.bin", content: bytes.Repeat([]byte("a"), 4096)})

	tests := []struct {
		name        string
		body        string
		contentType string
		maxBytes    int64
		wantKind    ErrorKind
	}{
		{"no file part", noFileBody.String(), noFileType, 0, KindNoFileProvided},
		{"file field without filename", plainFieldBody.String(), plainFieldType, 0, KindNoFileProvided},
		{"empty file", emptyBody.String(), emptyType, 0, KindNoFileProvided},
		{"json body", `{"file":"x"}`, "application/json", 0, KindFormParse},
		{"missing content type", "data", "", 0, KindFormParse},
		{"missing boundary", "data", "multipart/form-data", 0, KindFormParse},
		{"truncated body", "--xyz\r\nContent-Disposition: form-data; name=\"file\"; filename=\"a\"\r\n\r\nabc", "multipart/form-data; boundary=xyz", 0, KindFormParse},
		{"over limit", bigBody.String(), bigType, 1024, KindFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadUpload(strings.NewReader(tt.body), tt.contentType, tt.maxBytes)

			var relayErr *RelayError
			require.True(t, errors.As(err, &relayErr), "got %v", err)
			assert.Equal(t, tt.wantKind, relayErr.Kind)
		})
	}
}

func TestReadUploadWithinLimit(t *testing.T) {
	body, contentType := multipartBody(t, nil, helloFile())

	upload, err := ReadUpload(body, contentType, int64(body.Len()))

	require.NoError(t, err)
	assert.Equal(t, "hello.txt", upload.FileName)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{newRelayError(KindNoFileProvided, nil), http.StatusBadRequest},
		{newRelayError(KindFormParse, nil), http.StatusInternalServerError},
		{newRelayError(KindFileTooLarge, nil), http.StatusRequestEntityTooLarge},
		{newRelayError(KindUpstream, nil), http.StatusInternalServerError},
		{MethodNotAllowed(), http.StatusMethodNotAllowed},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
