// Package app is the snek command: flags and config in, one exchange out.
package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/RedstoneDaedalus/snekfetch/config"
	"github.com/RedstoneDaedalus/snekfetch/exchange"
	"github.com/RedstoneDaedalus/snekfetch/flags"
	"github.com/RedstoneDaedalus/snekfetch/input"
	"github.com/RedstoneDaedalus/snekfetch/logging"
	"github.com/RedstoneDaedalus/snekfetch/output"
	"github.com/RedstoneDaedalus/snekfetch/version"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultMaxRedirects applies when neither the flag nor the config file
// sets a limit.
const DefaultMaxRedirects = 30

// Env is what the command reads from and writes to.
type Env struct {
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func Main() error {
	return Run(Env{
		Args:   os.Args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}

func Run(env Env) error {
	args, flagSet, optionSet, err := flags.Parse(env.Args)
	if err != nil {
		if flagSet != nil {
			flagSet.PrintUsage(env.Stderr)
		}
		return err
	}
	if optionSet.AppOptions.PrintVersion {
		fmt.Fprintf(env.Stdout, "snek %s\n", version.Current())
		return nil
	}
	if optionSet.AppOptions.PrintLicenses {
		version.PrintLicenses(env.Stdout)
		return nil
	}

	cfg, err := config.Load(optionSet.AppOptions.ConfigPath, zerolog.Nop())
	if err != nil {
		return err
	}
	if err := applyConfig(cfg, optionSet); err != nil {
		return err
	}

	logConfig := logging.DefaultConfig()
	logConfig.Verbose = optionSet.AppOptions.Verbose
	logConfig.FilePath = optionSet.AppOptions.LogFile
	logConfig.Console = env.Stderr
	logger, closer, err := logging.New(logConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Parse positional arguments
	in, err := input.ParseArgs(args, env.Stdin, &optionSet.InputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		flagSet.PrintUsage(env.Stderr)
		return err
	}
	if err != nil {
		return err
	}
	logger.Debug().
		Str("method", in.Method).
		Str("url", in.URL.String()).
		Stringer("body", in.Body.BodyType).
		Int("max_redirects", optionSet.ExchangeOptions.MaxRedirects).
		Msg("parsed command line")

	ex, err := exchange.Start(in, &optionSet.ExchangeOptions, logger)
	if err != nil {
		return err
	}

	outputOptions := &optionSet.OutputOptions
	switch {
	case outputOptions.Download:
		return download(env, in, ex, outputOptions)
	case optionSet.AppOptions.Stream:
		return stream(env, ex)
	default:
		return printExchange(env, ex, outputOptions)
	}
}

// applyConfig fills what the command line left unset from the config file.
func applyConfig(cfg *config.Config, optionSet *flags.OptionSet) error {
	exchangeOptions := &optionSet.ExchangeOptions
	if exchangeOptions.MaxRedirects == flags.UnsetMaxRedirects {
		exchangeOptions.MaxRedirects = DefaultMaxRedirects
		if cfg.MaxRedirects != nil {
			exchangeOptions.MaxRedirects = *cfg.MaxRedirects
		}
	}
	exchangeOptions.UserAgent = cfg.UserAgent
	exchangeOptions.DefaultHeaders = cfg.DefaultHeaders

	if optionSet.AppOptions.LogFile == "" {
		optionSet.AppOptions.LogFile = cfg.LogFile
	}
	if optionSet.AppOptions.Pretty == "" && cfg.Pretty != "" {
		if err := flags.ApplyPretty(cfg.Pretty, &optionSet.OutputOptions); err != nil {
			return err
		}
	}
	return nil
}

// responseOf returns the response carried by a successful exchange or by
// its HTTP error.
func responseOf(res *snekfetch.Response, err error) *snekfetch.Response {
	if res != nil {
		return res
	}
	var httpErr *snekfetch.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Response
	}
	return nil
}

func printExchange(env Env, ex *snekfetch.Exchange, options *output.Options) error {
	res, err := ex.Wait()
	res = responseOf(res, err)
	if res == nil {
		return err
	}

	writer := bufio.NewWriter(env.Stdout)
	defer writer.Flush()
	printer := output.NewPrinter(writer, options)

	if err := printRequest(printer, writer, res.Request, options); err != nil {
		return err
	}
	if options.PrintResponseHeader {
		if err := printResponseHeader(printer, res); err != nil {
			return err
		}
	}
	if options.PrintResponseBody {
		if err := printResponseBody(printer, writer, res, options); err != nil {
			return err
		}
	}
	return err
}

func printRequest(printer output.Printer, w io.Writer, hop *snekfetch.Request, options *output.Options) error {
	if options.PrintRequestHeader {
		if err := printer.PrintRequestLine(hop); err != nil {
			return err
		}
		if err := printer.PrintHeader(output.RequestHeader(hop.Header())); err != nil {
			return err
		}
	}
	if options.PrintRequestBody && len(hop.Payload()) > 0 {
		if err := printer.PrintBody(bytes.NewReader(hop.Payload()), hop.Header().Get("Content-Type")); err != nil {
			return err
		}
		fmt.Fprint(w, "\n\n")
	}
	return nil
}

func printResponseHeader(printer output.Printer, res *snekfetch.Response) error {
	proto := res.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	if err := printer.PrintStatusLine(proto, fmt.Sprintf("%d %s", res.Status, res.StatusText), res.Status); err != nil {
		return err
	}
	return printer.PrintHeader(res.Header)
}

func printResponseBody(printer output.Printer, w io.Writer, res *snekfetch.Response, options *output.Options) error {
	if options.Select != "" {
		value, err := output.Select(res, options.Select)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, value)
		return nil
	}
	return printer.PrintBody(bytes.NewReader(res.Raw), res.ContentType())
}

// stream copies the body to stdout as it arrives, without formatting.
func stream(env Env, ex *snekfetch.Exchange) error {
	s := ex.Stream()
	defer s.Close()
	if _, err := io.Copy(env.Stdout, s); err != nil {
		return err
	}
	_, err := ex.Wait()
	return err
}

func download(env Env, in *input.Input, ex *snekfetch.Exchange, options *output.Options) error {
	writer := output.NewFileWriter(in.URL, options, env.Stderr)
	s := ex.Stream()
	defer s.Close()
	_, downloadErr := writer.Download(s)
	res, err := ex.Wait()
	if err != nil || downloadErr != nil {
		os.Remove(writer.Path())
	}

	if res := responseOf(res, err); res != nil && options.PrintResponseHeader {
		w := bufio.NewWriter(env.Stdout)
		defer w.Flush()
		printer := output.NewPrinter(w, options)
		if err := printResponseHeader(printer, res); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}
	return downloadErr
}

// ExitCode maps an error from Run to the process exit status: 3, 4 or 5 for
// a final 3xx, 4xx or 5xx response, 1 for anything else.
func ExitCode(err error) int {
	var httpErr *snekfetch.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Status / 100 {
		case 3, 4, 5:
			return httpErr.Status / 100
		}
	}
	return 1
}
