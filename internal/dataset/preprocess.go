package dataset

import "fmt"

// Validate checks that every record has a target in [0,9] and every one of
// its NumInputs values in [0,255]. The first violation is returned as a
// *FormatError naming the record index.
func Validate(records []RawRecord) error {
	for i := range records {
		rec := &records[i]
		if rec.Target < 0 || rec.Target >= NumClasses {
			return &FormatError{Row: i, Details: fmt.Sprintf("target %d out of range [0, %d]", rec.Target, NumClasses-1)}
		}
		for j := range rec.Inputs {
			// Written so that NaN fails the check.
			if v := rec.Inputs[j]; !(v >= 0 && v <= MaxPixel) {
				return &FormatError{Row: i, Details: fmt.Sprintf("input %d = %v out of range [0, %v]", j, v, MaxPixel)}
			}
		}
	}
	return nil
}

// Normalize prepares raw records for training, in place:
//
//	Inputs[0] = 1.0            (bias activation)
//	Inputs[i] = Inputs[i]/255  (i = 1..784)
//
// The whole batch is validated before anything is modified, so when Normalize
// returns an error the records are untouched.
//
// Normalize must be applied exactly once; records loaded from a binary cache
// are already normalized.
func Normalize(records []RawRecord) error {
	if err := Validate(records); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		rec.Inputs[0] = 1.0
		for j := 1; j < NumInputs; j++ {
			rec.Inputs[j] /= MaxPixel
		}
	}
	return nil
}
