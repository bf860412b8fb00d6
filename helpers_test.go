package snekfetch

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// sentRequest is what a fake transport saw for one hop.
type sentRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// fakeTransport answers each round trip with the next canned response and
// records the requests it saw.
type fakeTransport struct {
	mu        sync.Mutex
	responses []func() *http.Response
	sent      []sentRequest
}

func (f *fakeTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentRequest{
		Method: r.Method,
		URL:    r.URL.String(),
		Header: r.Header,
		Body:   string(body),
	})
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("no response left for %s %s", r.Method, r.URL)
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next(), nil
}

func (f *fakeTransport) requests() []sentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentRequest(nil), f.sent...)
}

func reply(status int, header http.Header, body string) func() *http.Response {
	return func() *http.Response {
		if header == nil {
			header = http.Header{}
		}
		return &http.Response{
			StatusCode: status,
			Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
		}
	}
}

func newFakeClient(t *testing.T, responses ...func() *http.Response) (*Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{responses: responses}
	return NewClient(WithTransport(ft)), ft
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
