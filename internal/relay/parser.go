package relay

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

const fileFieldName = "file"

// ParseRequest extracts the "file" part of a multipart request.
// maxBytes caps the request body when positive.
func ParseRequest(r *http.Request, maxBytes int64) (IncomingUpload, error) {
	return ReadUpload(r.Body, r.Header.Get("Content-Type"), maxBytes)
}

// ReadUpload reads a multipart/form-data body and returns the first part
// named "file" that carries a file name. The file is held in memory.
func ReadUpload(body io.Reader, contentType string, maxBytes int64) (IncomingUpload, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return IncomingUpload{}, newRelayError(KindFormParse, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return IncomingUpload{}, newRelayError(KindFormParse, http.ErrNotMultipart)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return IncomingUpload{}, newRelayError(KindFormParse, http.ErrMissingBoundary)
	}

	if body == nil {
		body = http.NoBody
	}
	if maxBytes > 0 {
		body = http.MaxBytesReader(nil, io.NopCloser(body), maxBytes)
	}

	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return IncomingUpload{}, newRelayError(KindNoFileProvided, nil)
		}
		if err != nil {
			return IncomingUpload{}, classifyReadError(err)
		}

		fileName := rawFileName(part)
		if part.FormName() != fileFieldName || fileName == "" {
			_, err := io.Copy(io.Discard, part)
			part.Close()
			if err != nil {
				return IncomingUpload{}, classifyReadError(err)
			}
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return IncomingUpload{}, classifyReadError(err)
		}
		if len(data) == 0 {
			return IncomingUpload{}, newRelayError(KindNoFileProvided, nil)
		}

		partType := part.Header.Get("Content-Type")
		if partType == "" {
			partType = defaultContentType
		}

		return IncomingUpload{
			FileBytes:   data,
			FileName:    fileName,
			ContentType: partType,
		}, nil
	}
}

// rawFileName returns the filename parameter as sent. Part.FileName strips
// directories, which would change the name pinned upstream.
func rawFileName(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func classifyReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return newRelayError(KindFileTooLarge, err)
	}
	return newRelayError(KindFormParse, err)
}
