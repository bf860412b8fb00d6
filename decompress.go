package snekfetch

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// decompressor inflates a gzip or deflate body. The decoder is created on
// first Read so an empty body is simply empty, and a compressed stream cut
// off mid-frame ends cleanly with whatever was decoded so far. A failure of
// the underlying body itself is still reported.
type decompressor struct {
	encoding string
	src      *sourceReader
	r        io.Reader
}

// sourceReader remembers the first non-EOF error of the wrapped body.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && s.err == nil {
		s.err = err
	}
	return n, err
}

func newDecompressor(encoding string, src io.Reader) *decompressor {
	return &decompressor{
		encoding: strings.ToLower(strings.TrimSpace(encoding)),
		src:      &sourceReader{r: src},
	}
}

func (d *decompressor) Read(p []byte) (int, error) {
	if d.r == nil {
		r, err := d.open()
		if d.src.err != nil {
			return 0, errors.Wrapf(d.src.err, "reading %s body", d.encoding)
		}
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				d.r = bytes.NewReader(nil)
				return 0, io.EOF
			}
			return 0, errors.Wrapf(err, "decompressing %s body", d.encoding)
		}
		d.r = r
	}
	n, err := d.r.Read(p)
	if d.src.err != nil {
		return n, errors.Wrapf(d.src.err, "reading %s body", d.encoding)
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		err = errors.Wrapf(err, "decompressing %s body", d.encoding)
	}
	return n, err
}

func (d *decompressor) open() (io.Reader, error) {
	br := bufio.NewReader(d.src)
	head, err := br.Peek(2)
	if len(head) == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	if d.encoding == "gzip" {
		return gzip.NewReader(br)
	}
	if isZlibHeader(head) {
		return zlib.NewReader(br)
	}
	// Some servers send raw DEFLATE for "deflate".
	return flate.NewReader(br), nil
}

// isZlibHeader reports whether b starts with a zlib (RFC 1950) header using
// the deflate method.
func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}
