package svnlook

// DefaultMaxBuffer is the output ceiling used when Options.MaxBuffer is zero.
const DefaultMaxBuffer = 5 * 1024 * 1024

// Options configures a single svnlook call. The zero value is valid and a
// nil *Options is treated the same way. Fields an operation does not accept
// are ignored.
type Options struct {
	// Revision selects a revision. Empty means the youngest.
	Revision string
	// Transaction selects an uncommitted transaction by name.
	Transaction string
	// Limit caps the number of history entries. Zero or less means no limit.
	Limit int
	// Extensions is passed to diff. A non-nil empty value asks for the
	// unified default.
	Extensions *string

	// Dir is the working directory of the child process.
	Dir string
	// MaxBuffer is the largest stdout svnlook may produce, in bytes.
	MaxBuffer int
	// Raw delivers output bytes untouched instead of decoding them as text.
	Raw bool
	// ShowWindow lets Windows open a console window for the child process.
	ShowWindow bool
}

// Extensions returns a pointer to v, for use in Options.Extensions.
func Extensions(v string) *string {
	return &v
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return &Options{}
	}
	return o
}

func (o *Options) maxBuffer() int {
	if o.MaxBuffer > 0 {
		return o.MaxBuffer
	}
	return DefaultMaxBuffer
}
