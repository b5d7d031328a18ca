package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultProgressEvery is how many rows LoadTextWithOptions reads between
// progress callbacks when TextOptions.ProgressEvery is zero.
const DefaultProgressEvery = 5000

// TextOptions configures text loading.
type TextOptions struct {
	RowsHint      int            // Expected number of rows, used only to pre-size storage
	ProgressEvery int            // Rows between Progress calls (default: DefaultProgressEvery)
	Progress      func(rows int) // Optional; called with the number of rows loaded so far
}

// LoadText loads records from a text file of lines "target,p1,...,p784".
//
// rowsHint only pre-sizes the result. The bias slot of every record is left
// at zero; call Normalize before training.
//
// Returns ErrFileNotFound if the file cannot be opened and a *FormatError
// (errors.Is(err, ErrBadFormat)) for the first malformed row. On any error the
// returned slice is nil.
func LoadText(path string, rowsHint int) ([]RawRecord, error) {
	return LoadTextWithOptions(path, TextOptions{RowsHint: rowsHint})
}

// LoadTextWithOptions is LoadText with progress reporting.
func LoadTextWithOptions(path string, opts TextOptions) ([]RawRecord, error) {
	//nolint:gosec // G304: data path comes from the command line
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, ErrFileNotFound, err)
	}
	defer file.Close()

	records, err := ParseText(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return records, nil
}

// ParseText parses text records from r. See LoadText for the format and the
// error contract.
func ParseText(r io.Reader, opts TextOptions) ([]RawRecord, error) {
	if opts.RowsHint < 0 {
		opts.RowsHint = 0
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = NumInputs // target + 784 pixels
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	records := make([]RawRecord, 0, opts.RowsHint)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, textReadError(err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, RawRecord{})
		if err := parseFields(fields, &records[len(records)-1], line); err != nil {
			return nil, err
		}

		if opts.Progress != nil && len(records)%opts.ProgressEvery == 0 {
			opts.Progress(len(records))
		}
	}

	if opts.Progress != nil && len(records)%opts.ProgressEvery != 0 {
		opts.Progress(len(records))
	}

	return records, nil
}

// parseFields fills rec from one text row. The bias slot is not part of the
// text format, so fields[i] lands in rec.Inputs[i] for i >= 1.
func parseFields(fields []string, rec *RawRecord, line int) error {
	target, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return &FormatError{Row: line, Details: fmt.Sprintf("target %q is not an integer", fields[0])}
	}
	rec.Target = target

	for i := 1; i < len(fields); i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return &FormatError{Row: line, Details: fmt.Sprintf("value %d (%q) is not a number", i, fields[i])}
		}
		rec.Inputs[i] = v
	}
	return nil
}

// textReadError converts csv reader failures into package errors.
func textReadError(err error) error {
	var parseErr *csv.ParseError
	if !errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if errors.Is(parseErr.Err, csv.ErrFieldCount) {
		return &FormatError{
			Row:     parseErr.Line,
			Details: fmt.Sprintf("expected a target followed by %d comma separated values", NumPixels),
		}
	}
	return &FormatError{Row: parseErr.Line, Details: parseErr.Err.Error()}
}
