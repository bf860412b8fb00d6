package flags

import (
	"io"
	"os"
	"strings"

	"github.com/RedstoneDaedalus/snekfetch/exchange"
	"github.com/RedstoneDaedalus/snekfetch/input"
	"github.com/RedstoneDaedalus/snekfetch/output"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

// UnsetMaxRedirects marks --max-redirects as not given on the command line.
const UnsetMaxRedirects = -1

type FlagSet interface {
	Args() []string
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	InputOptions    input.Options
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	AppOptions      AppOptions
}

// AppOptions are the flags that steer the command itself rather than the
// request or its output.
type AppOptions struct {
	Stream        bool
	Verbose       bool
	LogFile       string
	ConfigPath    string
	Pretty        string
	PrintVersion  bool
	PrintLicenses bool
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

func detectTerminal() terminalInfo {
	return terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// Parse reads the flags from args, where args[0] is the program name.
func Parse(args []string) ([]string, FlagSet, *OptionSet, error) {
	return parse(args, detectTerminal())
}

func parse(args []string, terminalInfo terminalInfo) ([]string, FlagSet, *OptionSet, error) {
	inputOptions := input.Options{}
	exchangeOptions := exchange.Options{MaxRedirects: UnsetMaxRedirects}
	outputOptions := output.Options{}
	appOptions := AppOptions{}
	var ignoreStdin bool
	printFlag := "\000" // "\000" is a special value that indicates user did not specified --print
	authFlag := ""

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.BoolVarLong(&inputOptions.JSON, "json", 'j', "data items are serialized as JSON (default)")
	flagSet.BoolVarLong(&inputOptions.Form, "form", 'f', "data items are serialized as form fields")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (HBhb)", "WHAT")
	flagSet.StringVarLong(&appOptions.Pretty, "pretty", 0, "controls output processing (all, format, none)", "STYLE")
	flagSet.BoolVarLong(&appOptions.Stream, "stream", 'S', "print the response body as it arrives")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'd', "download the response body to a file")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "save the response body to FILE", "FILE")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite an existing download file")
	flagSet.StringVarLong(&outputOptions.Select, "select", 0, "print only the value at PATH of a JSON body", "PATH")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "basic authentication (user[:password])", "USER[:PASS]")
	flagSet.IntVarLong(&exchangeOptions.MaxRedirects, "max-redirects", 0, "follow at most N redirects (0 for no limit, default 30)", "N")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.BoolVarLong(&appOptions.Verbose, "verbose", 'v', "write debug logs to stderr")
	flagSet.StringVarLong(&appOptions.LogFile, "log-file", 0, "also write logs to FILE, rotated", "FILE")
	flagSet.StringVarLong(&appOptions.ConfigPath, "config", 0, "read configuration from FILE", "FILE")
	flagSet.BoolVarLong(&appOptions.PrintVersion, "version", 0, "print version and exit")
	flagSet.BoolVarLong(&appOptions.PrintLicenses, "licenses", 0, "print licenses of bundled libraries and exit")
	if err := flagSet.Getopt(args, nil); err != nil {
		return nil, flagSet, nil, errors.Wrap(err, "parsing flags")
	}

	// Check stdin
	if !ignoreStdin && !terminalInfo.stdinIsTerminal {
		inputOptions.ReadStdin = true
	}

	// Parse --print
	if err := parsePrintFlag(printFlag, terminalInfo, &outputOptions); err != nil {
		return nil, flagSet, nil, err
	}

	// Parse --pretty
	if err := parsePrettyFlag(appOptions.Pretty, terminalInfo, &outputOptions); err != nil {
		return nil, flagSet, nil, err
	}

	// Parse --auth
	if authFlag != "" {
		auth, err := parseAuth(authFlag, askPassword)
		if err != nil {
			return nil, flagSet, nil, err
		}
		exchangeOptions.Auth = auth
	}

	if exchangeOptions.MaxRedirects < UnsetMaxRedirects {
		return nil, flagSet, nil, errors.Errorf("Value of --max-redirects must not be negative: %d", exchangeOptions.MaxRedirects)
	}
	if outputOptions.OutputFile != "" {
		outputOptions.Download = true
	}

	optionSet := &OptionSet{
		InputOptions:    inputOptions,
		ExchangeOptions: exchangeOptions,
		OutputOptions:   outputOptions,
		AppOptions:      appOptions,
	}
	return flagSet.Args(), flagSet, optionSet, nil
}

func parsePrintFlag(printFlag string, terminalInfo terminalInfo, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if terminalInfo.stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
	} else {
		for _, c := range printFlag {
			switch c {
			case 'H':
				outputOptions.PrintRequestHeader = true
			case 'B':
				outputOptions.PrintRequestBody = true
			case 'h':
				outputOptions.PrintResponseHeader = true
			case 'b':
				outputOptions.PrintResponseBody = true
			default:
				return errors.Errorf("Invalid char in --print value (must be consist of HBhb): %c", c)
			}
		}
	}
	return nil
}

// parsePrettyFlag fills the formatting options. An empty style means the
// default: everything on a terminal, nothing otherwise.
func parsePrettyFlag(pretty string, terminalInfo terminalInfo, outputOptions *output.Options) error {
	switch pretty {
	case "":
		outputOptions.EnableFormat = terminalInfo.stdoutIsTerminal
		outputOptions.EnableColor = terminalInfo.stdoutIsTerminal
	case "all":
		outputOptions.EnableFormat = true
		outputOptions.EnableColor = true
	case "format":
		outputOptions.EnableFormat = true
		outputOptions.EnableColor = false
	case "none":
		outputOptions.EnableFormat = false
		outputOptions.EnableColor = false
	default:
		return errors.Errorf("Value of --pretty must be one of all, format or none: %s", pretty)
	}
	return nil
}

// ApplyPretty sets the formatting options from a style name. The command
// uses it for a style taken from the configuration file.
func ApplyPretty(pretty string, outputOptions *output.Options) error {
	return parsePrettyFlag(pretty, terminalInfo{}, outputOptions)
}

func parseAuth(authFlag string, ask func() (string, error)) (exchange.AuthOptions, error) {
	colon := strings.Index(authFlag, ":")
	if colon == -1 {
		password, err := ask()
		if err != nil {
			return exchange.AuthOptions{}, err
		}
		return exchange.AuthOptions{
			Enabled:  true,
			UserName: authFlag,
			Password: password,
		}, nil
	}
	return exchange.AuthOptions{
		Enabled:  true,
		UserName: authFlag[:colon],
		Password: authFlag[colon+1:],
	}, nil
}
