package snekfetch

import (
	"bytes"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FormData accumulates a multipart/form-data body.
type FormData struct {
	buf      bytes.Buffer
	writer   *multipart.Writer
	boundary string
	closed   bool
}

func NewFormData() *FormData {
	f := &FormData{}
	f.writer = multipart.NewWriter(&f.buf)
	f.boundary = "snekfetch-" + uuid.NewString()
	// A UUID only uses characters RFC 2046 allows, so this cannot fail.
	_ = f.writer.SetBoundary(f.boundary)
	return f
}

// Append adds a part. An empty filename writes a plain field, anything else
// a file part.
func (f *FormData) Append(name string, data []byte, filename string) error {
	if f.closed {
		return errors.New("form data already finalized")
	}
	if filename == "" {
		return errors.Wrapf(f.writer.WriteField(name, string(data)), "writing form field '%s'", name)
	}
	part, err := f.writer.CreateFormFile(name, filename)
	if err != nil {
		return errors.Wrapf(err, "creating form file '%s'", name)
	}
	if _, err := part.Write(data); err != nil {
		return errors.Wrapf(err, "writing form file '%s'", name)
	}
	return nil
}

func (f *FormData) Boundary() string {
	return f.boundary
}

func (f *FormData) ContentType() string {
	return f.writer.FormDataContentType()
}

// Bytes writes the closing boundary on first call and returns the encoded
// body. The form accepts no more parts afterwards.
func (f *FormData) Bytes() ([]byte, error) {
	if !f.closed {
		if err := f.writer.Close(); err != nil {
			return nil, errors.Wrap(err, "finalizing form data")
		}
		f.closed = true
	}
	return f.buf.Bytes(), nil
}
