package output

type Options struct {
	PrintRequestHeader  bool
	PrintRequestBody    bool
	PrintResponseHeader bool
	PrintResponseBody   bool

	EnableFormat bool
	EnableColor  bool

	// Select is a gjson path. When set, only the selected value of the
	// response body is printed.
	Select string

	Download   bool
	OutputFile string
	Overwrite  bool
}
