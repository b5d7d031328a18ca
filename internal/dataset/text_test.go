package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textRow builds one text row with the given target and pixel values.
// Pixels not listed are zero.
func textRow(target int, npixels int, set map[int]int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(target))
	for i := 1; i <= npixels; i++ {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(set[i]))
	}
	return b.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadText_Valid(t *testing.T) {
	content := textRow(5, NumPixels, map[int]int{153: 3, 784: 255}) + "\n" +
		textRow(0, NumPixels, map[int]int{1: 17}) + "\n"
	path := writeFile(t, "train.csv", content)

	records, err := LoadText(path, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 5, records[0].Target)
	assert.Equal(t, 0.0, records[0].Inputs[0], "bias slot stays zero until Normalize")
	assert.Equal(t, 3.0, records[0].Inputs[153])
	assert.Equal(t, 255.0, records[0].Inputs[784])
	assert.Equal(t, 0.0, records[0].Inputs[152])

	assert.Equal(t, 0, records[1].Target)
	assert.Equal(t, 17.0, records[1].Inputs[1])
	assert.Equal(t, Success, ResultOf(err))
}

func TestLoadText_NoTrailingNewline(t *testing.T) {
	path := writeFile(t, "test.csv", textRow(7, NumPixels, nil))

	records, err := LoadText(path, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].Target)
}

func TestLoadText_BadFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short row", textRow(1, NumPixels, nil) + "\n" + textRow(2, NumPixels-1, nil) + "\n"},
		{"long row", textRow(1, NumPixels+1, nil) + "\n"},
		{"non-numeric pixel", strings.Replace(textRow(3, NumPixels, nil), ",0,", ",x,", 1) + "\n"},
		{"non-numeric target", "a" + textRow(3, NumPixels, nil)[1:] + "\n"},
		{"wrong delimiter", strings.ReplaceAll(textRow(4, NumPixels, nil), ",", ";") + "\n"},
		{"empty field", strings.Replace(textRow(4, NumPixels, nil), ",0,", ",,", 1) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)

			records, err := LoadText(path, 10)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, ErrBadFormat), "got %v", err)
			assert.Equal(t, BadFormat, ResultOf(err))

			var formatErr *FormatError
			assert.True(t, errors.As(err, &formatErr))
		})
	}
}

func TestLoadText_ShortRowReportsLine(t *testing.T) {
	content := textRow(1, NumPixels, nil) + "\n" + textRow(2, NumPixels-1, nil) + "\n"

	_, err := ParseText(strings.NewReader(content), TextOptions{})
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Row)
}

func TestLoadText_FileNotFound(t *testing.T) {
	records, err := LoadText(filepath.Join(t.TempDir(), "missing.csv"), 0)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, FileNotFound, ResultOf(err))
}

func TestParseText_Empty(t *testing.T) {
	records, err := ParseText(strings.NewReader(""), TextOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseText_Progress(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString(textRow(i%NumClasses, NumPixels, nil))
		b.WriteByte('\n')
	}

	var calls []int
	records, err := ParseText(strings.NewReader(b.String()), TextOptions{
		ProgressEvery: 3,
		Progress:      func(rows int) { calls = append(calls, rows) },
	})
	require.NoError(t, err)
	assert.Len(t, records, 7)
	assert.Equal(t, []int{3, 6, 7}, calls)
}
