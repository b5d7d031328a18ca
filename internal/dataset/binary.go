package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Binary layout constants.
const (
	targetSize = 8                                // int64 target
	valueSize  = 8                                // float64 input
	RecordSize = targetSize + NumInputs*valueSize // Bytes per binary record (6288)
)

// byteOrder is the machine's native order. Binary files are a local cache and
// are only guaranteed to be readable on a machine with the writer's layout.
var byteOrder = binary.NativeEndian

// SaveBinary writes records to path in the fixed-layout binary form.
//
// The file is created or truncated. Any failure to create, write, flush or
// close the file is returned; callers treat it as "no cache written".
func SaveBinary(path string, records []RawRecord) (err error) {
	//nolint:gosec // G304: data path comes from the command line
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriterSize(file, 64*RecordSize)
	if err := EncodeBinary(w, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EncodeBinary writes records back-to-back to w.
func EncodeBinary(w io.Writer, records []RawRecord) error {
	buf := make([]byte, RecordSize)
	for i := range records {
		encodeRecord(buf, &records[i])
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// LoadBinary reads records written by SaveBinary.
//
// Returns ErrFileNotFound if the file cannot be opened, ErrBadFormat if its
// size is not a multiple of RecordSize and ErrUnexpected if the stream ends
// early or still holds data after the expected byte count. On any error the
// returned slice is nil.
func LoadBinary(path string) ([]RawRecord, error) {
	//nolint:gosec // G304: data path comes from the command line
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, ErrFileNotFound, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w: %w", path, ErrUnexpected, err)
	}
	size := info.Size()
	if size%RecordSize != 0 {
		return nil, fmt.Errorf("failed to load %s: %w", path, &FormatError{
			Row:     -1,
			Details: fmt.Sprintf("size %d is not a multiple of the record size %d", size, RecordSize),
		})
	}

	records, err := DecodeBinary(bufio.NewReaderSize(file, 64*RecordSize), int(size/RecordSize))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return records, nil
}

// DecodeBinary reads exactly n records from r and then requires r to be
// exhausted. A short stream or trailing bytes yield ErrUnexpected.
func DecodeBinary(r io.Reader, n int) ([]RawRecord, error) {
	records := make([]RawRecord, n)
	buf := make([]byte, RecordSize)
	for i := range records {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: record %d of %d: %w", ErrUnexpected, i, n, err)
		}
		decodeRecord(buf, &records[i])
	}

	var probe [1]byte
	m, err := r.Read(probe[:])
	if m > 0 {
		return nil, fmt.Errorf("%w: data after record %d", ErrUnexpected, n)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return records, nil
}

// encodeRecord writes rec into buf, which must be RecordSize bytes long.
func encodeRecord(buf []byte, rec *RawRecord) {
	byteOrder.PutUint64(buf[:targetSize], uint64(int64(rec.Target)))
	off := targetSize
	for i := range rec.Inputs {
		byteOrder.PutUint64(buf[off:off+valueSize], math.Float64bits(rec.Inputs[i]))
		off += valueSize
	}
}

// decodeRecord is the inverse of encodeRecord.
func decodeRecord(buf []byte, rec *RawRecord) {
	//nolint:gosec // G115: round-trips the value written by encodeRecord
	rec.Target = int(int64(byteOrder.Uint64(buf[:targetSize])))
	off := targetSize
	for i := range rec.Inputs {
		rec.Inputs[i] = math.Float64frombits(byteOrder.Uint64(buf[off : off+valueSize]))
		off += valueSize
	}
}
