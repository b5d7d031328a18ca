package dataset

import "fmt"

// Canonical MNIST set sizes.
const (
	MNISTTrainSize = 60000
	MNISTTestSize  = 10000
)

// SpotCheck describes one normalized record whose content is known in advance.
//
// Inputs[0] must be the bias (1.0), Inputs[1:FirstNonZero] must be zero and
// Inputs[FirstNonZero] must equal Value exactly.
type SpotCheck struct {
	Index        int
	Target       int
	FirstNonZero int
	Value        float64
}

// MNISTTrainChecks are spot checks for the normalized mnist_train set.
var MNISTTrainChecks = []SpotCheck{
	{Index: 0, Target: 5, FirstNonZero: 153, Value: 0.011764705882352941},
	{Index: 1, Target: 0, FirstNonZero: 128, Value: 0.20000000000000001},
	{Index: 200, Target: 1, FirstNonZero: 124, Value: 0.11372549019607843},
	{Index: 49999, Target: 8, FirstNonZero: 152, Value: 0.40392156862745099},
	{Index: 59999, Target: 8, FirstNonZero: 185, Value: 0.14901960784313725},
}

// MNISTTestChecks are spot checks for the normalized mnist_test set.
var MNISTTestChecks = []SpotCheck{
	{Index: 0, Target: 7, FirstNonZero: 203, Value: 0.32941176470588235},
	{Index: 1, Target: 2, FirstNonZero: 95, Value: 0.45490196078431372},
	{Index: 250, Target: 4, FirstNonZero: 151, Value: 0.031372549019607843},
	{Index: 9999, Target: 6, FirstNonZero: 74, Value: 0.031372549019607843},
}

// VerifySpotChecks confirms that a loaded, normalized set has the expected
// size and matches every check. It catches loads that parsed cleanly but put
// values in the wrong slots.
func VerifySpotChecks(records []RawRecord, wantLen int, checks []SpotCheck) error {
	if len(records) != wantLen {
		return fmt.Errorf("spot check: got %d records, want %d", len(records), wantLen)
	}
	for _, c := range checks {
		if c.Index < 0 || c.Index >= len(records) {
			return fmt.Errorf("spot check: index %d out of range", c.Index)
		}
		rec := &records[c.Index]
		if rec.Inputs[0] != 1 {
			return fmt.Errorf("spot check: record %d: bias is %v, want 1", c.Index, rec.Inputs[0])
		}
		for i := 1; i < c.FirstNonZero; i++ {
			if rec.Inputs[i] != 0 {
				return fmt.Errorf("spot check: record %d: input %d is %v, want 0", c.Index, i, rec.Inputs[i])
			}
		}
		if got := rec.Inputs[c.FirstNonZero]; got != c.Value {
			return fmt.Errorf("spot check: record %d: input %d is %v, want %v", c.Index, c.FirstNonZero, got, c.Value)
		}
		if rec.Target != c.Target {
			return fmt.Errorf("spot check: record %d: target is %d, want %d", c.Index, rec.Target, c.Target)
		}
	}
	return nil
}
