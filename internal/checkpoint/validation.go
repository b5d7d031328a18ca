package checkpoint

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validation limits.
const (
	MaxHeaderSize    = 16 * 1024 * 1024 // 16MB
	MaxMatrixCount   = 1024
	MaxMatrixNameLen = 256
)

// ValidateMatrices checks the matrix table against the data section size:
// names must be sane, shapes positive, sizes consistent with the shape and
// regions in bounds without overlapping.
func ValidateMatrices(matrices []MatrixMeta, dataSize int64) error {
	if len(matrices) > MaxMatrixCount {
		return &ValidationError{
			Type:    "too_many_matrices",
			Details: fmt.Sprintf("got %d, max %d", len(matrices), MaxMatrixCount),
		}
	}

	for _, m := range matrices {
		if err := ValidateName(m.Name); err != nil {
			return err
		}
		if m.Rows <= 0 || m.Cols <= 0 || int64(m.Rows) > math.MaxInt64/valueSize/int64(m.Cols) {
			return &ValidationError{
				Type:    "invalid_shape",
				Matrix:  m.Name,
				Details: fmt.Sprintf("%dx%d", m.Rows, m.Cols),
			}
		}
		if want := int64(m.Rows) * int64(m.Cols) * valueSize; m.Size != want {
			return &ValidationError{
				Type:    "size_mismatch",
				Matrix:  m.Name,
				Details: fmt.Sprintf("size %d, shape %dx%d needs %d", m.Size, m.Rows, m.Cols, want),
			}
		}
	}

	sorted := make([]MatrixMeta, len(matrices))
	copy(sorted, matrices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, m := range sorted {
		if m.Offset < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Matrix:  m.Name,
				Details: fmt.Sprintf("offset=%d", m.Offset),
			}
		}
		if m.Size < 0 || m.Offset > dataSize || m.Size > dataSize-m.Offset {
			return &ValidationError{
				Type:    "out_of_bounds",
				Matrix:  m.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", m.Offset, m.Size, dataSize),
			}
		}
		if i < len(sorted)-1 && m.Offset+m.Size > sorted[i+1].Offset {
			return &ValidationError{
				Type:    "offset_overlap",
				Matrix:  m.Name,
				Details: fmt.Sprintf("overlaps %q", sorted[i+1].Name),
			}
		}
	}

	return nil
}

// ValidateName rejects empty, oversized or path-like matrix names.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Type: "invalid_name", Details: "empty name"}
	case len(name) > MaxMatrixNameLen:
		return &ValidationError{
			Type:    "name_too_long",
			Matrix:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxMatrixNameLen),
		}
	case strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, ".."):
		return &ValidationError{Type: "invalid_name", Matrix: name, Details: "contains a path separator, '..' or a null byte"}
	}
	return nil
}
