package svnlook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownOperation = errors.New("unknown svnlook operation")
	ErrMissingTarget    = errors.New("operation requires a path in the repository")
	ErrMissingProperty  = errors.New("operation requires a property name")
	ErrMaxBuffer        = errors.New("svnlook output exceeded the maximum buffer size")
	ErrParse            = errors.New("unable to parse svnlook output")
)

// ExitError is returned when svnlook could not be started or exited with a
// non-zero status. Stderr holds whatever the tool wrote as diagnostics.
type ExitError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Command, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
