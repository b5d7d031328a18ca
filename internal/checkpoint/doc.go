// Package checkpoint saves and restores network weights in a small,
// checksummed container.
//
// The layout follows the same scheme as a .born model file, specialised to
// float64 matrices:
//
//	Format Structure:
//	  [64 bytes: fixed header]
//	    0x00-0x03  Magic "DGNT"
//	    0x04-0x07  Version (uint32 LE)
//	    0x08-0x0B  Flags (uint32 LE)
//	    0x0C-0x0F  Reserved
//	    0x10-0x17  JSON header size (uint64 LE)
//	    0x18-0x1F  Data size (uint64 LE)
//	    0x20-0x3F  SHA-256 of the data section
//	  [JSON header: matrix table, training metadata]
//	  [padding to a 64-byte boundary]
//	  [Matrix data: row-major float64 LE]
//
// Unlike the record binary cache, checkpoints use an explicit byte order and
// can be moved between machines.
//
// Example usage:
//
//	err := checkpoint.Save("weights.dgnt", []checkpoint.Matrix{
//	    {Name: "input_hidden", Data: w0},
//	    {Name: "hidden_output", Data: w1},
//	}, checkpoint.Header{Training: &checkpoint.Training{Epochs: 50}})
//
//	file, err := checkpoint.Load("weights.dgnt")
//	w0, err := file.Matrix("input_hidden")
package checkpoint
