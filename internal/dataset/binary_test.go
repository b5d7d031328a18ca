package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/digitnet/internal/rng"
)

func TestBinary_RoundTrip(t *testing.T) {
	raws := Synthetic(3, rng.New(7))
	require.NoError(t, Normalize(raws))

	path := filepath.Join(t.TempDir(), "train.bin")
	require.NoError(t, SaveBinary(path, raws))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(raws)*RecordSize), info.Size())

	loaded, err := LoadBinary(path)
	require.NoError(t, err)
	if diff := cmp.Diff(raws, loaded); diff != "" {
		t.Errorf("LoadBinary() mismatch (-want +got):\n%s", diff)
	}
}

func TestBinary_RecordSize(t *testing.T) {
	assert.Equal(t, 6288, RecordSize)
}

func TestLoadBinary_BadSize(t *testing.T) {
	raws := Synthetic(1, rng.New(1))
	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, raws))

	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes()[:buf.Len()-1], 0o600))

	records, err := LoadBinary(path)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrBadFormat))
	assert.Equal(t, BadFormat, ResultOf(err))
}

func TestLoadBinary_FileNotFound(t *testing.T) {
	records, err := LoadBinary(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Nil(t, records)
	assert.Equal(t, FileNotFound, ResultOf(err))
}

func TestLoadBinary_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	records, err := LoadBinary(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeBinary_ShortStream(t *testing.T) {
	raws := Synthetic(1, rng.New(2))
	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, raws))

	records, err := DecodeBinary(bytes.NewReader(buf.Bytes()), len(raws)+1)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrUnexpected))
	assert.Equal(t, UnexpectedError, ResultOf(err))
}

func TestDecodeBinary_TrailingData(t *testing.T) {
	raws := Synthetic(1, rng.New(3))
	var buf bytes.Buffer
	require.NoError(t, EncodeBinary(&buf, raws))
	buf.WriteByte(0)

	records, err := DecodeBinary(&buf, len(raws))
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrUnexpected))
}

func TestSaveBinary_BadPath(t *testing.T) {
	err := SaveBinary(filepath.Join(t.TempDir(), "no", "such", "dir", "x.bin"), nil)
	assert.Error(t, err)
}
