package checkpoint

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// File is a decoded checkpoint.
type File struct {
	Header   Header
	Flags    uint32
	matrices map[string]*mat.Dense
}

// Load reads and verifies the checkpoint at path.
func Load(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for weight loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	f, err := Read(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}

// Read decodes a checkpoint from r, verifying the magic bytes, version,
// data checksum and matrix table.
func Read(r io.Reader) (*File, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	flags := binary.LittleEndian.Uint32(fixed[8:12])
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [ChecksumSize]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	if dataSize > math.MaxInt32*valueSize {
		return nil, &ValidationError{Type: "data_too_large", Details: fmt.Sprintf("data size %d", dataSize)}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header JSON: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	pos := int64(FixedHeaderSize) + int64(headerSize)
	if padding := alignedSize(pos) - pos; padding > 0 {
		if _, err := io.CopyN(io.Discard, r, padding); err != nil {
			return nil, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	// LimitReader keeps a corrupt size field from forcing a huge allocation.
	var buf bytes.Buffer
	//nolint:gosec // G115: dataSize is bounded above
	if _, err := io.Copy(&buf, io.LimitReader(r, int64(dataSize))); err != nil {
		return nil, fmt.Errorf("failed to read matrix data: %w", err)
	}
	data := buf.Bytes()
	if uint64(len(data)) != dataSize {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrTruncated, len(data), dataSize)
	}

	if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
		return nil, err
	}
	if err := ValidateMatrices(header.Matrices, int64(len(data))); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	matrices := make(map[string]*mat.Dense, len(header.Matrices))
	for _, meta := range header.Matrices {
		vals := make([]float64, meta.Rows*meta.Cols)
		section := data[meta.Offset : meta.Offset+meta.Size]
		for i := range vals {
			vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(section[i*valueSize : (i+1)*valueSize]))
		}
		matrices[meta.Name] = mat.NewDense(meta.Rows, meta.Cols, vals)
	}

	return &File{
		Header:   header,
		Flags:    flags,
		matrices: matrices,
	}, nil
}

// Names returns the matrix names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Header.Matrices))
	for i, meta := range f.Header.Matrices {
		names[i] = meta.Name
	}
	return names
}

// Matrix returns the named matrix.
func (f *File) Matrix(name string) (*mat.Dense, error) {
	m, ok := f.matrices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatrixNotFound, name)
	}
	return m, nil
}
