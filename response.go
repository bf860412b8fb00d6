package snekfetch

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Response is the outcome of an exchange, built once from the final hop.
type Response struct {
	Proto      string
	Status     int
	StatusText string
	Header     http.Header

	// Body is the decoded payload: the parsed JSON value for
	// application/json, a map[string]string for
	// application/x-www-form-urlencoded, and Raw otherwise or when the JSON
	// is malformed.
	Body interface{}
	Raw  []byte
	Text string
	OK   bool

	// URL is where the exchange ended up after following redirects.
	URL       *url.URL
	Request   *Request
	Redirects int
}

func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// JSON decodes the raw body into v, whatever the Content-Type says.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return errors.Wrap(err, "parsing response body as JSON")
	}
	return nil
}

// Lookup runs a gjson path query against the raw body.
func (r *Response) Lookup(path string) gjson.Result {
	return gjson.GetBytes(r.Raw, path)
}

// classify assembles the Response of the final hop and decides between
// success and *HTTPError.
func classify(hop *Request, resp *http.Response, raw []byte, redirects int, logger zerolog.Logger) (*Response, error) {
	res := &Response{
		Proto:      resp.Proto,
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Raw:        raw,
		Text:       string(raw),
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		URL:        hop.url,
		Request:    hop,
		Redirects:  redirects,
	}
	res.Body = decodeBody(res.ContentType(), res.Text, raw, logger)

	if !res.OK {
		return nil, &HTTPError{Response: res}
	}
	return res, nil
}

// statusText returns the reason phrase the server sent, or the standard one
// if it sent none.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func decodeBody(contentType, text string, raw []byte, logger zerolog.Logger) interface{} {
	switch {
	case strings.Contains(contentType, "application/json"):
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			logger.Debug().Err(err).Msg("response body is not valid JSON, keeping raw bytes")
			return raw
		}
		return v
	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		return parseForm(text)
	default:
		return raw
	}
}

// parseForm splits a urlencoded body into pairs. Keys and values are kept
// exactly as sent, without unescaping.
func parseForm(text string) map[string]string {
	form := make(map[string]string)
	for _, pair := range strings.Split(text, "&") {
		kv := strings.Split(pair, "=")
		value := ""
		if len(kv) > 1 {
			value = kv[1]
		}
		form[kv[0]] = value
	}
	return form
}
