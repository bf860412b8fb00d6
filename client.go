package snekfetch

import (
	"net/http"

	"github.com/RedstoneDaedalus/snekfetch/version"
	"github.com/rs/zerolog"
)

// Client holds what every request it creates shares: the transport, the
// logger and the redirect limit.
type Client struct {
	transport      http.RoundTripper
	logger         zerolog.Logger
	maxRedirects   int
	userAgent      string
	defaultHeaders map[string]string
}

type ClientOption func(*Client)

// DefaultClient backs the package-level helpers.
var DefaultClient = NewClient()

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:         zerolog.Nop(),
		userAgent:      version.UserAgent(),
		defaultHeaders: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = newTransport()
	}
	return c
}

// newTransport returns a transport that opens one connection per hop and
// leaves Content-Encoding alone.
func newTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableKeepAlives = true
	t.DisableCompression = true
	return t
}

func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxRedirects bounds the number of redirects one exchange follows.
// Zero, the default, follows redirects without limit.
func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithUserAgent replaces the User-Agent added to requests that lack one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithDefaultHeaders sets headers on every new request. Headers set on the
// request afterwards take precedence.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// New creates a request for any verb in Methods.
func (c *Client) New(method, url string) (*Request, error) {
	return newRequest(c, method, url)
}

func (c *Client) Get(url string) (*Request, error)     { return c.New("GET", url) }
func (c *Client) Post(url string) (*Request, error)    { return c.New("POST", url) }
func (c *Client) Put(url string) (*Request, error)     { return c.New("PUT", url) }
func (c *Client) Patch(url string) (*Request, error)   { return c.New("PATCH", url) }
func (c *Client) Delete(url string) (*Request, error)  { return c.New("DELETE", url) }
func (c *Client) Head(url string) (*Request, error)    { return c.New("HEAD", url) }
func (c *Client) Options(url string) (*Request, error) { return c.New("OPTIONS", url) }
func (c *Client) Connect(url string) (*Request, error) { return c.New("CONNECT", url) }
func (c *Client) Trace(url string) (*Request, error)   { return c.New("TRACE", url) }
func (c *Client) Brew(url string) (*Request, error)    { return c.New("BREW", url) }

func New(method, url string) (*Request, error) { return DefaultClient.New(method, url) }
func Get(url string) (*Request, error)         { return DefaultClient.Get(url) }
func Post(url string) (*Request, error)        { return DefaultClient.Post(url) }
func Put(url string) (*Request, error)         { return DefaultClient.Put(url) }
func Patch(url string) (*Request, error)       { return DefaultClient.Patch(url) }
func Delete(url string) (*Request, error)      { return DefaultClient.Delete(url) }
func Head(url string) (*Request, error)        { return DefaultClient.Head(url) }
func Options(url string) (*Request, error)     { return DefaultClient.Options(url) }
func Connect(url string) (*Request, error)     { return DefaultClient.Connect(url) }
func Trace(url string) (*Request, error)       { return DefaultClient.Trace(url) }
func Brew(url string) (*Request, error)        { return DefaultClient.Brew(url) }
