package dataset

// Record dimensions.
const (
	ImageSide  = 28                    // Images are ImageSide × ImageSide pixels
	NumPixels  = ImageSide * ImageSide // Pixel values per record (784)
	NumInputs  = NumPixels + 1         // Pixels plus the bias slot at index 0 (785)
	NumClasses = 10                    // Digits 0-9
	MaxPixel   = 255.0                 // Largest raw pixel intensity
)

// RawRecord is a record as read from disk.
//
// Inputs[0] is the bias slot. It is zero after a text load and 1.0 once the
// record has been normalized. Inputs[1:] hold the pixel intensities, raw
// [0,255] before Normalize and [0,1] after.
type RawRecord struct {
	Target int
	Inputs [NumInputs]float64
}

// Record is a normalized record in the form consumed by the network.
//
// Inputs has length NumInputs, Inputs[0] == 1.0 and every other element lies
// in [0,1]. Records are read-only once built.
type Record struct {
	Target int
	Inputs []float64
}

// ToRecords converts normalized raw records into Records.
//
// The inputs of all records share one backing array to keep 60k records in a
// single allocation.
func ToRecords(raws []RawRecord) []Record {
	records := make([]Record, len(raws))
	backing := make([]float64, len(raws)*NumInputs)
	for i := range raws {
		inputs := backing[i*NumInputs : (i+1)*NumInputs : (i+1)*NumInputs]
		copy(inputs, raws[i].Inputs[:])
		records[i] = Record{Target: raws[i].Target, Inputs: inputs}
	}
	return records
}

// CountByTarget returns how many records carry each digit.
func CountByTarget(records []Record) [NumClasses]int {
	var counts [NumClasses]int
	for i := range records {
		if t := records[i].Target; t >= 0 && t < NumClasses {
			counts[t]++
		}
	}
	return counts
}
