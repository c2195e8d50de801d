package bulk

import (
	"errors"
	"fmt"
)

const (
	ExitOk          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitMissingFile = 3
)

// UsageError reports a command line or configuration problem found before
// anything is sent to the service.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usageErrorf(format string, a ...interface{}) error {
	return &UsageError{Message: fmt.Sprintf(format, a...)}
}

// MissingFileError reports an input file that is unset or does not exist.
type MissingFileError struct {
	Path    string
	Message string
}

func (e *MissingFileError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Path)
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOk
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	var missing *MissingFileError
	if errors.As(err, &missing) {
		return ExitMissingFile
	}
	return ExitFailure
}
