package trainer

import (
	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/parallel"
)

// Classifier maps a normalized input vector to a digit.
//
// Implementations must be safe for concurrent use when evaluation runs in
// parallel; *network.Network is.
type Classifier interface {
	Classify(inputs []float64) int
}

// Confusion counts predictions: row = true target, column = predicted digit.
type Confusion [dataset.NumClasses][dataset.NumClasses]int

// RowSum returns the number of records whose true target is digit.
func (c *Confusion) RowSum(digit int) int {
	sum := 0
	for _, v := range c[digit] {
		sum += v
	}
	return sum
}

// Total returns the number of records counted.
func (c *Confusion) Total() int {
	total := 0
	for d := range c {
		total += c.RowSum(d)
	}
	return total
}

// Correct returns the number of records on the diagonal.
func (c *Confusion) Correct() int {
	correct := 0
	for d := range c {
		correct += c[d][d]
	}
	return correct
}

// Accuracy returns Correct/Total, or 0 for an empty matrix.
func (c *Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Correct()) / float64(total)
}

// Evaluate returns the fraction of records net classifies correctly, or 0 for
// an empty set.
func Evaluate[S ~[]dataset.Record](net Classifier, records S) float64 {
	return EvaluateWith(net, records, parallel.Sequential())
}

// EvaluateWith is Evaluate with classification fanned out according to cfg.
// The result is identical to a sequential run.
func EvaluateWith[S ~[]dataset.Record](net Classifier, records S, cfg parallel.Config) float64 {
	if len(records) == 0 {
		return 0
	}
	correct := 0
	for i, p := range predict(net, records, cfg) {
		if p == records[i].Target {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}

// BuildConfusionMatrix classifies every record and tallies the results.
func BuildConfusionMatrix[S ~[]dataset.Record](net Classifier, records S) Confusion {
	return BuildConfusionMatrixWith(net, records, parallel.Sequential())
}

// BuildConfusionMatrixWith is BuildConfusionMatrix with classification fanned
// out according to cfg.
func BuildConfusionMatrixWith[S ~[]dataset.Record](net Classifier, records S, cfg parallel.Config) Confusion {
	var c Confusion
	for i, p := range predict(net, records, cfg) {
		c[records[i].Target][p]++
	}
	return c
}

// predict classifies every record, writing results by index.
func predict[S ~[]dataset.Record](net Classifier, records S, cfg parallel.Config) []int {
	return parallel.Map(len(records), func(i int) int {
		return net.Classify(records[i].Inputs)
	}, cfg)
}
