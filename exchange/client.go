package exchange

import (
	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/rs/zerolog"
)

// BuildClient returns the engine client the command line sends through.
func BuildClient(options *Options, logger zerolog.Logger) *snekfetch.Client {
	clientOptions := []snekfetch.ClientOption{
		snekfetch.WithLogger(logger),
		snekfetch.WithMaxRedirects(options.MaxRedirects),
		snekfetch.WithDefaultHeaders(options.DefaultHeaders),
	}
	if options.Transport != nil {
		clientOptions = append(clientOptions, snekfetch.WithTransport(options.Transport))
	}
	if options.UserAgent != "" {
		clientOptions = append(clientOptions, snekfetch.WithUserAgent(options.UserAgent))
	}
	return snekfetch.NewClient(clientOptions...)
}
