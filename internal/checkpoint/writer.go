package checkpoint

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a named matrix to be written to a checkpoint.
type Matrix struct {
	Name string
	Data *mat.Dense
}

// Save writes matrices to path, creating or truncating the file.
//
// header supplies Metadata, Training and optionally CreatedAt; the matrix
// table and format version are filled in by the writer.
func Save(path string, matrices []Matrix, header Header) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for weight saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	if err := Write(w, matrices, header); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// Write encodes matrices as a checkpoint to w.
func Write(w io.Writer, matrices []Matrix, header Header) error {
	header.FormatVersion = FormatVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Build the matrix table.
	header.Matrices = make([]MatrixMeta, 0, len(matrices))
	seen := make(map[string]bool, len(matrices))
	var dataSize int64
	for _, m := range matrices {
		if err := ValidateName(m.Name); err != nil {
			return err
		}
		if seen[m.Name] {
			return &ValidationError{Type: "duplicate_name", Matrix: m.Name, Details: "name used twice"}
		}
		seen[m.Name] = true
		if m.Data == nil {
			return &ValidationError{Type: "invalid_shape", Matrix: m.Name, Details: "nil matrix"}
		}

		rows, cols := m.Data.Dims()
		size := int64(rows) * int64(cols) * valueSize
		header.Matrices = append(header.Matrices, MatrixMeta{
			Name:   m.Name,
			Rows:   rows,
			Cols:   cols,
			Offset: dataSize,
			Size:   size,
		})
		dataSize += size
	}

	data := make([]byte, dataSize)
	off := 0
	for _, m := range matrices {
		rows, cols := m.Data.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				binary.LittleEndian.PutUint64(data[off:off+valueSize], math.Float64bits(m.Data.At(i, j)))
				off += valueSize
			}
		}
	}
	checksum := ComputeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Training != nil {
		flags |= FlagHasTraining
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	// 0x0C-0x0F reserved
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	//nolint:gosec // G115: dataSize is a sum of non-negative sizes
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(dataSize))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	pos := int64(FixedHeaderSize + len(headerJSON))
	if padding := alignedSize(pos) - pos; padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write matrix data: %w", err)
	}
	return nil
}
