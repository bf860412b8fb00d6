package input

import "net/url"

// Input is the request described on the command line, before any file or
// stdin value has been read.
type Input struct {
	Method     string
	URL        *url.URL
	Parameters []Field
	Header     Header
	Body       Body
}

type Header struct {
	Fields []Field
}

type BodyType int

const (
	EmptyBody BodyType = iota
	JSONBody
	FormBody
	RawBody
)

func (t BodyType) String() string {
	switch t {
	case EmptyBody:
		return "empty"
	case JSONBody:
		return "json"
	case FormBody:
		return "form"
	case RawBody:
		return "raw"
	default:
		return "unknown"
	}
}

type Body struct {
	BodyType      BodyType
	Fields        []Field
	RawJSONFields []Field // used only when BodyType == JSONBody
	Files         []Field // used only when BodyType == FormBody
	Raw           []byte  // used only when BodyType == RawBody
}

type Field struct {
	Name   string
	Value  string
	IsFile bool
}

type Options struct {
	JSON      bool
	Form      bool
	ReadStdin bool
}
