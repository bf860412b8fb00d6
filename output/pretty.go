package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	plain         Printer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Method         aurora.Color
	URL            aurora.Color
	Proto          aurora.Color
	Status         aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Method:         aurora.GreenFg | aurora.BoldFm,
	URL:            aurora.CyanFg | aurora.UnderlineFm,
	Proto:          aurora.BlueFg,
	Status:         aurora.BrownFg | aurora.BoldFm,
	FieldName:      aurora.WhiteFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.WhiteFg,
}

// errorStatusPalette is used for status lines outside 2xx.
var errorStatusPalette = aurora.RedFg | aurora.BoldFm

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		plain:         NewPlainPrinter(config.Writer),
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
	}
}

func (p *PrettyPrinter) PrintRequestLine(req *snekfetch.Request) error {
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.aurora.Colorize(req.Method(), p.headerPalette.Method),
		p.aurora.Colorize(req.URL(), p.headerPalette.URL),
		p.aurora.Colorize("HTTP/1.1", p.headerPalette.Proto))
	return nil
}

func (p *PrettyPrinter) PrintStatusLine(proto string, status string, statusCode int) error {
	palette := p.headerPalette.Status
	if statusCode < 200 || statusCode >= 300 {
		palette = errorStatusPalette
	}
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(proto, p.headerPalette.Proto),
		p.aurora.Colorize(status, palette))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	for _, name := range sortedNames(header) {
		for _, value := range header[name] {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}
	fmt.Fprintln(p.writer)
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// PrintBody indents a JSON body. Anything else, malformed JSON included,
// is printed as it is.
func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	if !isJSON(contentType) {
		return p.plain.PrintBody(body, contentType)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, b, "", "    "); err != nil {
		return p.plain.PrintBody(bytes.NewReader(b), contentType)
	}
	indented.WriteByte('\n')
	if _, err := indented.WriteTo(p.writer); err != nil {
		return errors.Wrap(err, "printing response body")
	}
	return nil
}
