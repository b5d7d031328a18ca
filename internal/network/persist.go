package network

import (
	"fmt"

	"github.com/born-ml/digitnet/internal/checkpoint"
)

// Matrix names inside a weight checkpoint.
const (
	InputHiddenName  = "input_hidden"
	HiddenOutputName = "hidden_output"
)

// Save writes the network's weights to path. training may be nil.
// Deltas are not saved; a loaded network resumes with zero momentum.
func (n *Network) Save(path string, training *checkpoint.Training) error {
	err := checkpoint.Save(path, []checkpoint.Matrix{
		{Name: InputHiddenName, Data: n.inputHidden},
		{Name: HiddenOutputName, Data: n.hiddenOutput},
	}, checkpoint.Header{Training: training})
	if err != nil {
		return fmt.Errorf("failed to save weights: %w", err)
	}
	return nil
}

// Load restores a network saved by Save. The returned header carries the
// training metadata recorded with the weights, if any.
func Load(path string) (*Network, checkpoint.Header, error) {
	f, err := checkpoint.Load(path)
	if err != nil {
		return nil, checkpoint.Header{}, fmt.Errorf("failed to load weights: %w", err)
	}

	inputHidden, err := f.Matrix(InputHiddenName)
	if err != nil {
		return nil, checkpoint.Header{}, fmt.Errorf("failed to load weights: %w", err)
	}
	hiddenOutput, err := f.Matrix(HiddenOutputName)
	if err != nil {
		return nil, checkpoint.Header{}, fmt.Errorf("failed to load weights: %w", err)
	}

	n, err := FromWeights(inputHidden, hiddenOutput)
	if err != nil {
		return nil, checkpoint.Header{}, fmt.Errorf("failed to load weights: %w", err)
	}
	return n, f.Header, nil
}
