package dataset

import (
	"errors"
	"fmt"
)

// Load errors.
var (
	ErrFileNotFound = errors.New("file does not exist")
	ErrBadFormat    = errors.New("file format did not match expectations")
	ErrUnexpected   = errors.New("unexpected error")
)

// FormatError provides detailed information about a malformed record.
type FormatError struct {
	Row     int    // 1-based row (text) or 0-based record index (binary, validation); -1 if unknown
	Details string // What was wrong
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: %s", ErrBadFormat, e.Details)
	}
	return fmt.Sprintf("%v: record %d: %s", ErrBadFormat, e.Row, e.Details)
}

// Unwrap makes errors.Is(err, ErrBadFormat) hold for every FormatError.
func (e *FormatError) Unwrap() error {
	return ErrBadFormat
}

// Result classifies the outcome of a load.
type Result int

// Load results.
const (
	Success Result = iota
	FileNotFound
	BadFormat
	UnexpectedError
)

// String returns a human-readable description of the result.
func (r Result) String() string {
	switch r {
	case Success:
		return "Success."
	case FileNotFound:
		return "File does not exist."
	case BadFormat:
		return "File format did not match expectations."
	case UnexpectedError:
		return "Unexpected error."
	default:
		return "Unknown result."
	}
}

// ResultOf maps an error returned by this package to its Result.
// Errors from outside the package map to UnexpectedError.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrFileNotFound):
		return FileNotFound
	case errors.Is(err, ErrBadFormat):
		return BadFormat
	default:
		return UnexpectedError
	}
}
