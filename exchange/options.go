package exchange

import "net/http"

type Options struct {
	MaxRedirects   int
	Auth           AuthOptions
	UserAgent      string
	DefaultHeaders map[string]string
	Transport      http.RoundTripper
}

type AuthOptions struct {
	Enabled  bool
	UserName string
	Password string
}
