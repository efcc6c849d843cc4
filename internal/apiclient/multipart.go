package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// File is one binary attachment of a multipart request.
type File struct {
	Field       string // "thumbnail" or "video"
	Filename    string
	ContentType string
	Content     io.Reader
}

// Multipart is a request body made of a JSON "request" part plus files.
// Files with a nil Content are skipped, which is how updates leave the
// existing attachment untouched.
type Multipart struct {
	Request any
	Files   []File
}

// encode writes the body and returns it with its Content-Type header value.
func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	payload, err := json.Marshal(m.Request)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request part: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="request"; filename="blob"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", err
	}

	for _, f := range m.Files {
		if f.Content == nil {
			continue
		}
		fh := make(textproto.MIMEHeader)
		fh.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		fh.Set("Content-Type", ct)
		fp, err := w.CreatePart(fh)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(fp, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
