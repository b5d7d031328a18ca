package checkpoint

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrMatrixNotFound     = errors.New("matrix not found")
	ErrTruncated          = errors.New("data section shorter than declared")
)

// ValidationError provides detailed information about a malformed matrix table.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Matrix  string // Matrix name involved
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Matrix != "" {
		return fmt.Sprintf("%s: matrix %q: %s", e.Type, e.Matrix, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
