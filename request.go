package snekfetch

import (
	"encoding/json"
	"net/url"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type bodyKind int

const (
	emptyBody bodyKind = iota
	rawBody
	jsonBody
	formBody
)

func (k bodyKind) String() string {
	switch k {
	case rawBody:
		return "raw"
	case jsonBody:
		return "json"
	case formBody:
		return "form"
	default:
		return "empty"
	}
}

// Request is a fluent builder for one exchange. It may be changed freely
// until Start; Start works on a private snapshot, so later changes never
// reach the wire.
type Request struct {
	client *Client
	method Method
	url    *url.URL
	header *Header

	kind bodyKind
	data []byte
	form *FormData

	// err is a builder failure that could not be returned by the setter
	// that caused it. It fails the exchange at Start.
	err error

	startOnce sync.Once
	exchange  *Exchange
}

func newRequest(c *Client, method, rawurl string) (*Request, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	u, err := parseURL(rawurl)
	if err != nil {
		return nil, err
	}
	r := &Request{
		client: c,
		method: m,
		url:    u,
		header: NewHeader(),
	}
	keys := make([]string, 0, len(c.defaultHeaders))
	for k := range c.defaultHeaders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.header.Set(k, c.defaultHeaders[k])
	}
	return r, nil
}

func parseURL(rawurl string) (*url.URL, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, &InvalidURLError{URL: rawurl, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &InvalidURLError{URL: rawurl, Err: errors.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &InvalidURLError{URL: rawurl, Err: errors.New("missing host")}
	}
	return u, nil
}

func (r *Request) Method() Method {
	return r.method
}

func (r *Request) URL() *url.URL {
	return r.url
}

func (r *Request) Header() *Header {
	return r.header
}

// Payload returns the raw body bytes. For a multipart request it is empty
// until the request has been started.
func (r *Request) Payload() []byte {
	return r.data
}

// Set upserts a header, replacing both the stored casing and the value.
func (r *Request) Set(name, value string) *Request {
	r.header.Set(name, value)
	return r
}

// SetHeaders applies Set for each entry, in key order.
func (r *Request) SetHeaders(headers map[string]string) *Request {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.header.Set(k, headers[k])
	}
	return r
}

// Query appends a query string parameter to the URL.
func (r *Request) Query(key, value string) *Request {
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	if r.url.RawQuery == "" {
		r.url.RawQuery = pair
	} else {
		r.url.RawQuery += "&" + pair
	}
	return r
}

// Attach switches the request to multipart mode and appends a part. An
// empty filename appends a plain field.
func (r *Request) Attach(name string, data []byte, filename string) *Request {
	if r.form == nil {
		r.form = NewFormData()
	}
	r.Set("Content-Type", r.form.ContentType())
	if err := r.form.Append(name, data, filename); err != nil && r.err == nil {
		r.err = err
	}
	r.kind = formBody
	r.data = nil
	return r
}

// Send stores data as the body, verbatim.
func (r *Request) Send(data []byte) *Request {
	r.kind = rawBody
	r.data = data
	return r
}

func (r *Request) SendString(s string) *Request {
	return r.Send([]byte(s))
}

// SendJSON encodes v as the body and sets Content-Type: application/json.
// An encoding failure is reported when the request is started.
func (r *Request) SendJSON(v interface{}) *Request {
	data, err := json.Marshal(v)
	if err != nil {
		if r.err == nil {
			r.err = errors.Wrap(err, "marshaling JSON of HTTP body")
		}
		return r
	}
	r.Set("Content-Type", "application/json")
	r.kind = jsonBody
	r.data = data
	return r
}

// Start dispatches the request. Calling it again returns the same Exchange.
func (r *Request) Start() *Exchange {
	r.startOnce.Do(func() {
		r.exchange = newExchange(r.client.logger)
		hop, err := r.snapshot()
		if err != nil {
			r.exchange.fail(errors.Wrap(err, "building request"))
			return
		}
		go r.client.run(r.exchange, hop)
	})
	return r.exchange
}

// Do starts the request and waits for the outcome.
func (r *Request) Do() (*Response, error) {
	return r.Start().Wait()
}

// Stream starts the request and returns its body stream.
func (r *Request) Stream() *Stream {
	return r.Start().Stream()
}

// snapshot freezes the builder into the request of the first hop. A form
// body is finalized here.
func (r *Request) snapshot() (*Request, error) {
	if r.err != nil {
		return nil, r.err
	}
	u := *r.url
	hop := &Request{
		client: r.client,
		method: r.method,
		url:    &u,
		header: r.header.Clone(),
		kind:   r.kind,
		data:   append([]byte(nil), r.data...),
	}
	if r.kind == formBody {
		data, err := r.form.Bytes()
		if err != nil {
			return nil, err
		}
		hop.data = data
	}
	return hop, nil
}

// finalize adds the headers every hop carries. It runs on the snapshot,
// right before the round trip.
func (r *Request) finalize() {
	if !r.header.Has("User-Agent") {
		r.header.Set("User-Agent", r.client.userAgent)
	}
	if r.method != MethodHead && !r.header.Has("Accept-Encoding") {
		r.header.Set("Accept-Encoding", "gzip, deflate")
	}
}
