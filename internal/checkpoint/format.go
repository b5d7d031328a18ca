package checkpoint

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "DGNT"
	FormatVersion   = 1
	HeaderAlignment = 64   // Matrix data starts on a 64-byte boundary
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	valueSize       = 8    // float64
)

// Flags stored in the fixed header.
const (
	FlagHasMetadata uint32 = 1 << 0 // custom metadata included
	FlagHasTraining uint32 = 1 << 1 // training metadata included
)

// Header is the JSON header of a checkpoint file.
type Header struct {
	FormatVersion int               `json:"format_version"`     // Version of the checkpoint format
	CreatedAt     time.Time         `json:"created_at"`         // When the file was written
	Matrices      []MatrixMeta      `json:"matrices"`           // Matrix table, in data order
	Metadata      map[string]string `json:"metadata"`           // Custom metadata
	Training      *Training         `json:"training,omitempty"` // Training run that produced the weights
}

// Training records the run that produced a set of weights.
type Training struct {
	Hidden        int     `json:"hidden"`
	Epochs        int     `json:"epochs"`
	LearningRate  float64 `json:"learning_rate"`
	Momentum      float64 `json:"momentum"`
	Seed          uint64  `json:"seed"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
}

// MatrixMeta describes one matrix in the data section.
type MatrixMeta struct {
	Name   string `json:"name"`   // Matrix name (e.g., "input_hidden")
	Rows   int    `json:"rows"`   // Row count
	Cols   int    `json:"cols"`   // Column count
	Offset int64  `json:"offset"` // Offset from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// alignedSize returns pos rounded up to HeaderAlignment.
func alignedSize(pos int64) int64 {
	return pos + (HeaderAlignment-(pos%HeaderAlignment))%HeaderAlignment
}
