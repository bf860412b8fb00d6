package snekfetch

import (
	"bytes"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// dispatch sends one hop: exactly one round trip on the client transport.
func (c *Client) dispatch(hop *Request, n int) (*http.Response, error) {
	hop.finalize()

	var body io.Reader
	if len(hop.data) > 0 {
		body = bytes.NewReader(hop.data)
	}
	req, err := http.NewRequest(string(hop.method), hop.url.String(), body)
	if err != nil {
		return nil, transportError(hop, errors.Wrap(err, "creating HTTP request"))
	}
	req.Header = hop.header.wire()
	if host := hop.header.Get("Host"); host != "" {
		req.Host = host
	}

	c.logger.Debug().
		Str("method", string(hop.method)).
		Str("url", hop.url.String()).
		Str("body", hop.kind.String()).
		Int("length", len(hop.data)).
		Int("hop", n).
		Msg("dispatching request")

	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, transportError(hop, errors.Wrap(err, "sending HTTP request"))
	}
	return resp, nil
}
