package snekfetch

import (
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/pkg/errors"
)

const chunkSize = 32 * 1024

var reUnzipEncoding = regexp.MustCompile(`(?i)^\s*(?:deflate|gzip)\s*$`)

// run drives every hop of e in turn. A hop's body is fully read before the
// next hop is dispatched.
func (c *Client) run(e *Exchange, hop *Request) {
	for redirects := 0; ; redirects++ {
		resp, err := c.dispatch(hop, redirects)
		if err != nil {
			e.fail(err)
			return
		}

		target, err := redirectTarget(hop, resp)
		if err != nil {
			resp.Body.Close()
			e.fail(transportError(hop, err))
			return
		}
		if target != nil {
			if err := drain(resp); err != nil {
				e.fail(transportError(hop, err))
				return
			}
			if c.maxRedirects > 0 && redirects >= c.maxRedirects {
				e.fail(errors.Wrapf(ErrTooManyRedirects, "stopped after %d redirects", redirects))
				return
			}
			c.logger.Debug().
				Int("status", resp.StatusCode).
				Str("from", hop.url.String()).
				Str("to", target.String()).
				Msg("following redirect")
			hop = hop.redirect(resp.StatusCode, target)
			continue
		}

		if err := consume(e, resp); err != nil {
			e.fail(transportError(hop, err))
			return
		}
		res, err := classify(hop, resp, e.bytes(), redirects, c.logger)
		if err != nil {
			e.fail(err)
			return
		}
		e.succeed(res)
		return
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// redirectTarget resolves the Location of a redirect response against the
// hop URL. It returns nil for responses that end the exchange, including a
// redirect status without a Location.
func redirectTarget(hop *Request, resp *http.Response) (*url.URL, error) {
	if !isRedirect(resp.StatusCode) {
		return nil, nil
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, nil
	}
	target, err := hop.url.Parse(location)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing redirect location %q", location)
	}
	return target, nil
}

// redirect derives the request of the next hop. 301 and 302 turn anything
// but HEAD into a GET without body, 303 always becomes a GET, 307 and 308
// repeat the request unchanged.
func (r *Request) redirect(status int, target *url.URL) *Request {
	next := &Request{
		client: r.client,
		method: r.method,
		url:    target,
		header: r.header.Clone(),
		kind:   r.kind,
		data:   r.data,
	}
	switch status {
	case http.StatusMovedPermanently, http.StatusFound:
		if r.method != MethodHead {
			next.method = MethodGet
			next.kind = emptyBody
			next.data = nil
		}
	case http.StatusSeeOther:
		next.method = MethodGet
		next.kind = emptyBody
		next.data = nil
	}
	return next
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, err := io.Copy(io.Discard, resp.Body)
	return errors.Wrap(err, "draining redirect body")
}

func shouldUnzip(resp *http.Response) bool {
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotModified {
		return false
	}
	if resp.Header.Get("Content-Length") == "0" {
		return false
	}
	return reUnzipEncoding.MatchString(resp.Header.Get("Content-Encoding"))
}

// consume copies the final hop's body, decompressed if needed, into the
// exchange chunk by chunk.
func consume(e *Exchange, resp *http.Response) error {
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if shouldUnzip(resp) {
		body = newDecompressor(resp.Header.Get("Content-Encoding"), resp.Body)
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			e.write(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading response body")
		}
	}
}
