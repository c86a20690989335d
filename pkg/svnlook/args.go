package svnlook

import (
	"fmt"
	"strconv"
)

// Request names the repository and, where the operation needs them, the path
// and property to inspect.
type Request struct {
	Repo     string
	Target   string
	Property string
	Options  *Options
}

// BuildArgs assembles the svnlook argument list (without the executable) for
// the operation described by d.
//
// Positionals come first: the operation, the repository, then the property
// name and target as the operation requires. Flags follow in the fixed order
// revision, transaction, limit, extensions, and only those d accepts. XML
// operations end with --xml.
func BuildArgs(d Descriptor, req Request) ([]string, error) {
	if d.NeedsProperty && req.Property == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingProperty, d.Op)
	}
	if d.NeedsTarget && req.Target == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingTarget, d.Op)
	}

	args := []string{string(d.Op), req.Repo}
	if d.NeedsProperty {
		args = append(args, req.Property)
	}
	if d.NeedsTarget {
		args = append(args, req.Target)
	}

	opts := req.Options.orDefault()
	for _, f := range flagOrder {
		if !d.Accepts(f) {
			continue
		}
		args = append(args, flagArgs(f, opts, d.RevProp)...)
	}

	if d.Shape == ShapeXML {
		args = append(args, "--xml")
	}
	return args, nil
}

func flagArgs(f Flag, opts *Options, revprop bool) []string {
	switch f {
	case FlagRevision:
		if opts.Revision == "" {
			return nil
		}
		if revprop {
			return []string{"--revision", opts.Revision, "--revprop"}
		}
		return []string{"--revision", opts.Revision}
	case FlagTransaction:
		if opts.Transaction == "" {
			return nil
		}
		return []string{"--transaction", opts.Transaction}
	case FlagLimit:
		if opts.Limit <= 0 {
			return nil
		}
		return []string{"--limit", strconv.Itoa(opts.Limit)}
	case FlagExtensions:
		if opts.Extensions == nil {
			return nil
		}
		if *opts.Extensions == "" {
			return []string{"--extensions", "--unified"}
		}
		return []string{"--extensions", *opts.Extensions}
	}
	return nil
}
