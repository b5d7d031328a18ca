package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func spotCheckFixture() []RawRecord {
	records := make([]RawRecord, 4)
	for i := range records {
		records[i].Inputs[0] = 1
	}
	records[1].Target = 3
	records[1].Inputs[20] = 0.5
	records[1].Inputs[400] = 0.25
	return records
}

func TestVerifySpotChecks(t *testing.T) {
	checks := []SpotCheck{{Index: 1, Target: 3, FirstNonZero: 20, Value: 0.5}}

	tests := []struct {
		name    string
		mutate  func(rs []RawRecord)
		wantLen int
		wantErr bool
	}{
		{"pass", func([]RawRecord) {}, 4, false},
		{"wrong size", func([]RawRecord) {}, 5, true},
		{"missing bias", func(rs []RawRecord) { rs[1].Inputs[0] = 0 }, 4, true},
		{"early non-zero", func(rs []RawRecord) { rs[1].Inputs[19] = 0.1 }, 4, true},
		{"wrong value", func(rs []RawRecord) { rs[1].Inputs[20] = 0.6 }, 4, true},
		{"wrong target", func(rs []RawRecord) { rs[1].Target = 4 }, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := spotCheckFixture()
			tt.mutate(records)
			err := VerifySpotChecks(records, tt.wantLen, checks)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestVerifySpotChecks_IndexOutOfRange(t *testing.T) {
	err := VerifySpotChecks(spotCheckFixture(), 4, []SpotCheck{{Index: 9}})
	assert.Error(t, err)
}

func TestMNISTChecks_WithinCanonicalSizes(t *testing.T) {
	for _, c := range MNISTTrainChecks {
		assert.Less(t, c.Index, MNISTTrainSize)
		assert.Less(t, c.FirstNonZero, NumInputs)
	}
	for _, c := range MNISTTestChecks {
		assert.Less(t, c.Index, MNISTTestSize)
		assert.Less(t, c.FirstNonZero, NumInputs)
	}
}
