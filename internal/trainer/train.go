// Package trainer runs epochs of online training and measures accuracy.
package trainer

import (
	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/network"
	"github.com/born-ml/digitnet/internal/parallel"
	"github.com/born-ml/digitnet/internal/rng"
)

// Target activations used for training.
const (
	TargetOff = 0.1
	TargetOn  = 0.9
)

// SoftTargets returns TargetOff for every digit except target, which gets
// TargetOn.
func SoftTargets(target int) []float64 {
	targets := make([]float64, dataset.NumClasses)
	for i := range targets {
		targets[i] = TargetOff
	}
	targets[target] = TargetOn
	return targets
}

// RunConfig configures RunTraining.
type RunConfig struct {
	Epochs       int
	LearningRate float64
	Momentum     float64

	// Source shuffles the training set each epoch. It should be the source
	// that initialized the network so one seed reproduces the whole run.
	Source *rng.Source

	// Parallel controls evaluation fan-out. The zero value is sequential.
	Parallel parallel.Config

	// OnEpoch, if set, is called after the baseline (Epoch 0) and after
	// every epoch.
	OnEpoch func(EpochStats)
}

// EpochStats are the accuracies measured after an epoch.
type EpochStats struct {
	Epoch         int // 0 for the untrained baseline
	TrainAccuracy float64
	TestAccuracy  float64
}

// History holds Epochs+1 entries; index 0 is the baseline.
type History []EpochStats

// Final returns the last entry, or the zero value for an empty history.
func (h History) Final() EpochStats {
	if len(h) == 0 {
		return EpochStats{}
	}
	return h[len(h)-1]
}

// RunTraining trains net for cfg.Epochs epochs.
//
// Both sets are evaluated before training. Each epoch shuffles trainingSet in
// place with cfg.Source, performs one TrainStep per record in that order with
// SoftTargets, then evaluates both sets again.
//
// Panics if cfg.Source is nil and cfg.Epochs > 0.
func RunTraining(net *network.Network, trainingSet, testSet []dataset.Record, cfg RunConfig) History {
	if cfg.Epochs > 0 && cfg.Source == nil {
		panic("trainer: RunConfig.Source is nil")
	}

	targets := make([][]float64, dataset.NumClasses)
	for d := range targets {
		targets[d] = SoftTargets(d)
	}

	history := make(History, 0, max(cfg.Epochs, 0)+1)
	record := func(epoch int) {
		stats := EpochStats{
			Epoch:         epoch,
			TrainAccuracy: EvaluateWith(net, trainingSet, cfg.Parallel),
			TestAccuracy:  EvaluateWith(net, testSet, cfg.Parallel),
		}
		history = append(history, stats)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(stats)
		}
	}

	record(0)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		cfg.Source.Shuffle(len(trainingSet), func(i, j int) {
			trainingSet[i], trainingSet[j] = trainingSet[j], trainingSet[i]
		})
		for i := range trainingSet {
			rec := &trainingSet[i]
			net.TrainStep(rec.Inputs, targets[rec.Target], cfg.LearningRate, cfg.Momentum)
		}
		record(epoch)
	}
	return history
}
