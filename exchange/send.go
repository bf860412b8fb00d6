package exchange

import (
	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/RedstoneDaedalus/snekfetch/input"
	"github.com/rs/zerolog"
)

// Start builds the client and the request for the input and dispatches it.
func Start(in *input.Input, options *Options, logger zerolog.Logger) (*snekfetch.Exchange, error) {
	client := BuildClient(options, logger)
	req, err := BuildRequest(client, in, options)
	if err != nil {
		return nil, err
	}
	return req.Start(), nil
}
