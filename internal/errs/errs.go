package errs

import "errors"

var (
	ErrNoRepository  = errors.New("no repository given. Pass a repository path or set one with `svnlook-go repo default PATH`")
	ErrNotRepository = errors.New("path does not look like a Subversion repository (no format file found)")
	ErrBinaryJSON    = errors.New("binary content cannot be printed as JSON; drop --json to write the raw bytes")
	ErrInvalidConfig = errors.New("invalid config value")
)
