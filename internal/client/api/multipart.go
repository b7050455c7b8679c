package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// MultipartBody builds a multipart/form-data request body. It is passed to
// Request unmodified so the boundary in its content type stays authoritative.
type MultipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
}

func NewMultipartBody() *MultipartBody {
	m := &MultipartBody{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

// AddField appends a plain form field.
func (m *MultipartBody) AddField(name, value string) error {
	return m.writer.WriteField(name, value)
}

// AddFile appends the contents of the file at path under the given field
// name, using the file's base name as the part filename.
func (m *MultipartBody) AddFile(field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return m.AddFileReader(field, filepath.Base(path), f)
}

// AddFileReader appends a file part read from r.
func (m *MultipartBody) AddFileReader(field, filename string, r io.Reader) error {
	part, err := m.writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	return err
}

// ContentType returns the multipart content type including the boundary.
func (m *MultipartBody) ContentType() string {
	return m.writer.FormDataContentType()
}

// Reader finalizes the body and returns a reader over it. No parts may be
// added afterwards.
func (m *MultipartBody) Reader() io.Reader {
	if !m.closed {
		m.writer.Close()
		m.closed = true
	}
	return bytes.NewReader(m.buf.Bytes())
}
