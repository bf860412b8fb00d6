package snekfetch

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrTooManyRedirects is the cause of the failure when a client configured
// with WithMaxRedirects sees a longer chain.
var ErrTooManyRedirects = errors.New("too many redirects")

// InvalidURLError is returned by New when the URL cannot be used.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Cause() error  { return e.Err }
func (e *InvalidURLError) Unwrap() error { return e.Err }

type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported method: %s", e.Method)
}

// TransportError means no usable response arrived: the round trip failed, or
// the body was cut off or could not be decoded.
type TransportError struct {
	Request *Request
	Err     error
}

func (e *TransportError) Error() string {
	if e.Request == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Request.Method(), e.Request.URL(), e.Err)
}

func (e *TransportError) Cause() error  { return e.Err }
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is the failure of an exchange whose final status is outside
// [200,300). The embedded Response carries the decoded error body.
type HTTPError struct {
	*Response
}

func (e *HTTPError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", e.Status, e.StatusText))
}

func transportError(req *Request, err error) error {
	if err == nil {
		err = errors.New("unknown error occurred")
	}
	return &TransportError{Request: req, Err: err}
}
