package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

// ValidPDF is a minimal stand-in for a PDF payload.
func ValidPDF() []byte {
	return []byte("%PDF-1.4\n%%EOF\n")
}

// ValidJPEG is a minimal stand-in for a JPEG payload.
func ValidJPEG() []byte {
	return []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xff, 0xd9}
}

// FilePart describes one file part of a multipart upload request.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// NewUploadRequest builds a multipart POST with explicit per-part content
// types, the way browsers submit the upload form.
func NewUploadRequest(t *testing.T, path string, fields map[string]string, parts []FilePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.Field+`"; filename="`+p.Filename+`"`)
		h.Set("Content-Type", p.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part %s: %v", p.Field, err)
		}
		if _, err := part.Write(p.Data); err != nil {
			t.Fatalf("write part %s: %v", p.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, path, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}
