// Package network implements a single-hidden-layer sigmoid network trained by
// online backpropagation with momentum.
//
// Shapes, with H hidden nodes:
//
//	inputs          785        (bias slot 1.0 at index 0, then 784 pixels)
//	W_inputHidden   785 × H
//	hidden⁺         H+1        (1.0 prepended to σ(inputs · W_inputHidden))
//	W_hiddenOutput  (H+1) × 10
//	outputs         10         (σ(hidden⁺ · W_hiddenOutput))
//
// Example:
//
//	src := rng.NewDefault()
//	net := network.New(20, src)
//	net.TrainStep(rec.Inputs, trainer.SoftTargets(rec.Target), 0.1, 0.9)
//	digit := net.Classify(rec.Inputs)
package network

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/digitnet/internal/rng"
)

// Network dimensions and initialization range.
const (
	NumInputs  = 785 // 784 pixels plus the bias slot
	NumOutputs = 10  // One per digit
	InitRange  = 0.05
)

// Network holds the weights and the previous step's deltas.
//
// Classify and Outputs only read the weights and may run concurrently with
// each other. TrainStep mutates them and must not overlap with any other call.
type Network struct {
	hidden int

	inputHidden  *mat.Dense // NumInputs × hidden
	hiddenOutput *mat.Dense // (hidden+1) × NumOutputs

	prevInputHidden  *mat.Dense
	prevHiddenOutput *mat.Dense
}

// New creates a network with hidden nodes, drawing every weight uniformly
// from [-InitRange, InitRange] out of src: input→hidden row-major first, then
// hidden→output. Deltas start at zero.
//
// Panics if hidden < 1.
func New(hidden int, src *rng.Source) *Network {
	if hidden < 1 {
		panic(fmt.Sprintf("network: hidden must be at least 1, got %d", hidden))
	}

	dist := distuv.Uniform{Min: -InitRange, Max: InitRange, Src: src}
	draw := func(n int) []float64 {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = dist.Rand()
		}
		return vals
	}

	n := newZero(hidden)
	n.inputHidden = mat.NewDense(NumInputs, hidden, draw(NumInputs*hidden))
	n.hiddenOutput = mat.NewDense(hidden+1, NumOutputs, draw((hidden+1)*NumOutputs))
	return n
}

// FromWeights creates a network from existing weight matrices, which are
// copied. Deltas start at zero.
func FromWeights(inputHidden, hiddenOutput mat.Matrix) (*Network, error) {
	ir, hidden := inputHidden.Dims()
	or, oc := hiddenOutput.Dims()
	switch {
	case ir != NumInputs || hidden < 1:
		return nil, fmt.Errorf("input-hidden weights are %dx%d, want %dxH", ir, hidden, NumInputs)
	case or != hidden+1 || oc != NumOutputs:
		return nil, fmt.Errorf("hidden-output weights are %dx%d, want %dx%d", or, oc, hidden+1, NumOutputs)
	}

	n := newZero(hidden)
	n.inputHidden = mat.DenseCopyOf(inputHidden)
	n.hiddenOutput = mat.DenseCopyOf(hiddenOutput)
	return n, nil
}

func newZero(hidden int) *Network {
	return &Network{
		hidden:           hidden,
		prevInputHidden:  mat.NewDense(NumInputs, hidden, nil),
		prevHiddenOutput: mat.NewDense(hidden+1, NumOutputs, nil),
	}
}

// Hidden returns the number of hidden nodes.
func (n *Network) Hidden() int {
	return n.hidden
}

// InputHidden returns a copy of the input→hidden weights.
func (n *Network) InputHidden() *mat.Dense {
	return mat.DenseCopyOf(n.inputHidden)
}

// HiddenOutput returns a copy of the hidden→output weights.
func (n *Network) HiddenOutput() *mat.Dense {
	return mat.DenseCopyOf(n.hiddenOutput)
}

// Classify returns the digit with the highest output activation. Ties go to
// the lowest index.
func (n *Network) Classify(inputs []float64) int {
	_, out := n.forward(inputs)
	return floats.MaxIdx(out.RawVector().Data)
}

// Outputs returns the output activations for inputs.
func (n *Network) Outputs(inputs []float64) []float64 {
	_, out := n.forward(inputs)
	return out.RawVector().Data
}

// TrainStep performs one forward pass and one backpropagation update with
// momentum:
//
//	e_out    = (t − o) ⊙ o ⊙ (1 − o)
//	e_hidden = (W_hiddenOutput · e_out) ⊙ h⁺ ⊙ (1 − h⁺)
//	Δ_ho     = lr·(h⁺ ⊗ e_out) + m·Δ_ho_prev
//	Δ_ih     = lr·(inputs ⊗ e_hidden[1:]) + m·Δ_ih_prev
//	W       += Δ
//
// e_hidden uses the hidden→output weights from before this step. targets are
// used as given.
func (n *Network) TrainStep(inputs, targets []float64, learningRate, momentum float64) {
	if len(targets) != NumOutputs {
		panic(fmt.Sprintf("network: got %d targets, want %d", len(targets), NumOutputs))
	}
	x := mat.NewVecDense(NumInputs, inputs)
	hPlus, out := n.forward(inputs)

	// Output error terms.
	eOut := mat.NewVecDense(NumOutputs, nil)
	for k := 0; k < NumOutputs; k++ {
		o := out.AtVec(k)
		eOut.SetVec(k, (targets[k]-o)*o*(1-o))
	}

	// Hidden error terms, including the unused bias entry at index 0.
	eHidden := mat.NewVecDense(n.hidden+1, nil)
	eHidden.MulVec(n.hiddenOutput, eOut)
	for j := 0; j <= n.hidden; j++ {
		h := hPlus.AtVec(j)
		eHidden.SetVec(j, eHidden.AtVec(j)*h*(1-h))
	}

	n.prevHiddenOutput.Scale(momentum, n.prevHiddenOutput)
	n.prevHiddenOutput.RankOne(n.prevHiddenOutput, learningRate, hPlus, eOut)
	n.hiddenOutput.Add(n.hiddenOutput, n.prevHiddenOutput)

	n.prevInputHidden.Scale(momentum, n.prevInputHidden)
	n.prevInputHidden.RankOne(n.prevInputHidden, learningRate, x, eHidden.SliceVec(1, n.hidden+1))
	n.inputHidden.Add(n.inputHidden, n.prevInputHidden)
}

// forward returns hidden⁺ and the output activations. It allocates its own
// vectors so concurrent callers never share scratch space.
func (n *Network) forward(inputs []float64) (hPlus, out *mat.VecDense) {
	if len(inputs) != NumInputs {
		panic(fmt.Sprintf("network: got %d inputs, want %d", len(inputs), NumInputs))
	}
	x := mat.NewVecDense(NumInputs, inputs)

	hidden := mat.NewVecDense(n.hidden, nil)
	hidden.MulVec(n.inputHidden.T(), x)

	hPlus = mat.NewVecDense(n.hidden+1, nil)
	hPlus.SetVec(0, 1.0)
	for j := 0; j < n.hidden; j++ {
		hPlus.SetVec(j+1, sigmoid(hidden.AtVec(j)))
	}

	out = mat.NewVecDense(NumOutputs, nil)
	out.MulVec(n.hiddenOutput.T(), hPlus)
	for k := 0; k < NumOutputs; k++ {
		out.SetVec(k, sigmoid(out.AtVec(k)))
	}
	return hPlus, out
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
