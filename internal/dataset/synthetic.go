package dataset

import (
	"math"

	"github.com/born-ml/digitnet/internal/rng"
)

// Synthetic creates perClass raw records for every digit, interleaved so that
// record i carries target i%NumClasses.
//
// This is NOT realistic digit data. Each digit lights a horizontal band of
// rows starting at row 2*digit, with per-pixel jitter drawn from src, which is
// enough for a small network to separate the classes. The records are raw
// ([0,255], bias slot zero); call Normalize before use.
//
// Example:
//
//	raws := dataset.Synthetic(10, rng.New(1))
//	if err := dataset.Normalize(raws); err != nil {
//	    return err
//	}
//	records := dataset.ToRecords(raws)
func Synthetic(perClass int, src *rng.Source) []RawRecord {
	if perClass <= 0 {
		return nil
	}
	records := make([]RawRecord, perClass*NumClasses)
	for i := range records {
		digit := i % NumClasses
		rec := &records[i]
		rec.Target = digit

		startRow := digit * 2
		for row := startRow; row < startRow+8 && row < ImageSide; row++ {
			for col := 5; col < 23; col++ {
				v := 200 + src.Uniform(-40, 40)
				rec.Inputs[1+row*ImageSide+col] = math.Round(v)
			}
		}
		// Sparse background noise.
		for k := 0; k < 16; k++ {
			idx := 1 + src.IntN(NumPixels)
			if rec.Inputs[idx] == 0 {
				rec.Inputs[idx] = math.Round(src.Uniform(0, 60))
			}
		}
	}
	return records
}
