// Package report renders training results for people and plotting tools.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/digitnet/internal/trainer"
)

// PlotFile is the file name the command line tool writes plot data to.
const PlotFile = "plotdata.csv"

// WritePlotCSV writes one row per history entry, without a header:
//
//	epochIndex,trainingAccuracy,testAccuracy
func WritePlotCSV(w io.Writer, history trainer.History) error {
	cw := csv.NewWriter(w)
	for i, s := range history {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(s.TrainAccuracy, 'g', -1, 64),
			strconv.FormatFloat(s.TestAccuracy, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write plot row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write plot data: %w", err)
	}
	return nil
}

// SavePlotCSV writes history to path with WritePlotCSV.
func SavePlotCSV(path string, history trainer.History) (err error) {
	//nolint:gosec // G304: output path is chosen by the caller
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return WritePlotCSV(file, history)
}

// WriteConfusion writes c as an aligned table with a legend:
//
//	Confusion Matrix
//	    y-axis=correct answer
//	    x-axis=guessed answer
//	        0     1 ...
//	  0   975     0 ...
func WriteConfusion(w io.Writer, c *trainer.Confusion) error {
	width := len(strconv.Itoa(c.Total()))
	width = max(width, 1) + 1

	var b strings.Builder
	b.WriteString("Confusion Matrix\n")
	b.WriteString("    y-axis=correct answer\n")
	b.WriteString("    x-axis=guessed answer\n")

	b.WriteString("   ")
	for col := range c[0] {
		fmt.Fprintf(&b, " %*d", width, col)
	}
	b.WriteByte('\n')

	for row := range c {
		fmt.Fprintf(&b, "%3d", row)
		for _, v := range c[row] {
			fmt.Fprintf(&b, " %*d", width, v)
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write confusion matrix: %w", err)
	}
	return nil
}

// FormatPercent formats an accuracy in [0,1] as a percentage.
func FormatPercent(accuracy float64) string {
	return strconv.FormatFloat(accuracy*100, 'f', 2, 64) + "%"
}
