package output

import (
	"io"
	"net/http"

	"github.com/RedstoneDaedalus/snekfetch"
)

type Printer interface {
	PrintRequestLine(req *snekfetch.Request) error
	PrintStatusLine(proto string, status string, statusCode int) error
	PrintHeader(header http.Header) error
	PrintBody(body io.Reader, contentType string) error
}

// NewPrinter picks the pretty printer when formatting is enabled.
func NewPrinter(w io.Writer, options *Options) Printer {
	if options.EnableFormat {
		return NewPrettyPrinter(PrettyPrinterConfig{
			Writer:      w,
			EnableColor: options.EnableColor,
		})
	}
	return NewPlainPrinter(w)
}

// RequestHeader flattens a request header for printing, keeping the casing
// the request was built with.
func RequestHeader(h *snekfetch.Header) http.Header {
	header := make(http.Header, h.Len())
	for _, field := range h.Fields() {
		header[field.Name] = []string{field.Value}
	}
	return header
}
