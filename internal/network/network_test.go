package network

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/digitnet/internal/checkpoint"
	"github.com/born-ml/digitnet/internal/rng"
)

// testInputs returns a normalized-looking input vector.
func testInputs(seed uint64) []float64 {
	src := rng.New(seed)
	inputs := make([]float64, NumInputs)
	inputs[0] = 1
	for i := 1; i < NumInputs; i++ {
		if src.Float64() < 0.2 {
			inputs[i] = src.Float64()
		}
	}
	return inputs
}

func softTargets(target int) []float64 {
	t := make([]float64, NumOutputs)
	for i := range t {
		t[i] = 0.1
	}
	t[target] = 0.9
	return t
}

func TestNew_Shapes(t *testing.T) {
	net := New(20, rng.New(1))

	assert.Equal(t, 20, net.Hidden())
	r, c := net.InputHidden().Dims()
	assert.Equal(t, NumInputs, r)
	assert.Equal(t, 20, c)
	r, c = net.HiddenOutput().Dims()
	assert.Equal(t, 21, r)
	assert.Equal(t, NumOutputs, c)
}

func TestNew_InitRange(t *testing.T) {
	net := New(8, rng.New(2))

	for _, w := range []*mat.Dense{net.InputHidden(), net.HiddenOutput()} {
		data := w.RawMatrix().Data
		assert.LessOrEqual(t, floats.Max(data), InitRange)
		assert.GreaterOrEqual(t, floats.Min(data), -InitRange)
		// Not all equal: the source was actually consumed.
		assert.NotEqual(t, floats.Max(data), floats.Min(data))
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := New(5, rng.New(99))
	b := New(5, rng.New(99))
	assert.True(t, mat.Equal(a.InputHidden(), b.InputHidden()))
	assert.True(t, mat.Equal(a.HiddenOutput(), b.HiddenOutput()))

	c := New(5, rng.New(100))
	assert.False(t, mat.Equal(a.InputHidden(), c.InputHidden()))
}

func TestNew_PanicsOnZeroHidden(t *testing.T) {
	assert.Panics(t, func() { New(0, rng.New(1)) })
}

func TestClassify_Deterministic(t *testing.T) {
	net := New(20, rng.New(3))
	inputs := testInputs(4)

	first := net.Classify(inputs)
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, NumOutputs)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, net.Classify(inputs))
	}
}

func TestClassify_TieGoesToLowestIndex(t *testing.T) {
	// All-zero weights give every output σ(0) = 0.5.
	net, err := FromWeights(mat.NewDense(NumInputs, 3, nil), mat.NewDense(4, NumOutputs, nil))
	require.NoError(t, err)

	assert.Equal(t, 0, net.Classify(testInputs(5)))
	for _, o := range net.Outputs(testInputs(5)) {
		assert.Equal(t, 0.5, o)
	}
}

func TestClassify_UsesBiasRow(t *testing.T) {
	inputHidden := mat.NewDense(NumInputs, 1, nil)
	hiddenOutput := mat.NewDense(2, NumOutputs, nil)
	// Output 7 is driven by the hidden bias, output 3 by the hidden node,
	// which only sees the input bias row.
	hiddenOutput.Set(0, 7, 1)
	hiddenOutput.Set(1, 3, 5)
	inputHidden.Set(0, 0, 10)

	net, err := FromWeights(inputHidden, hiddenOutput)
	require.NoError(t, err)

	inputs := make([]float64, NumInputs)
	inputs[0] = 1
	assert.Equal(t, 3, net.Classify(inputs))

	inputHidden.Set(0, 0, -10)
	net, err = FromWeights(inputHidden, hiddenOutput)
	require.NoError(t, err)
	assert.Equal(t, 7, net.Classify(inputs))
}

func TestTrainStep_MovesOutputsTowardTargets(t *testing.T) {
	net := New(20, rng.New(6))
	inputs := testInputs(7)
	targets := softTargets(4)

	before := net.Outputs(inputs)
	net.TrainStep(inputs, targets, 0.1, 0.9)
	after := net.Outputs(inputs)

	for k := 0; k < NumOutputs; k++ {
		distBefore := math.Abs(targets[k] - before[k])
		distAfter := math.Abs(targets[k] - after[k])
		assert.Less(t, distAfter, distBefore, "output %d", k)
	}
}

func TestTrainStep_Deterministic(t *testing.T) {
	a := New(10, rng.New(8))
	b := New(10, rng.New(8))

	for i := 0; i < 5; i++ {
		inputs := testInputs(uint64(i))
		a.TrainStep(inputs, softTargets(i), 0.1, 0.9)
		b.TrainStep(inputs, softTargets(i), 0.1, 0.9)
	}

	assert.True(t, mat.Equal(a.InputHidden(), b.InputHidden()))
	assert.True(t, mat.Equal(a.HiddenOutput(), b.HiddenOutput()))
}

func TestTrainStep_Momentum(t *testing.T) {
	inputs := testInputs(9)
	targets := softTargets(2)

	// With zero learning rate after the first step, the second step applies
	// exactly momentum times the first delta.
	net := New(4, rng.New(10))
	w0 := net.HiddenOutput()
	net.TrainStep(inputs, targets, 0.1, 0.5)
	w1 := net.HiddenOutput()
	net.TrainStep(inputs, targets, 0, 0.5)
	w2 := net.HiddenOutput()

	var d1, d2 mat.Dense
	d1.Sub(w1, w0)
	d2.Sub(w2, w1)
	d1.Scale(0.5, &d1)
	assert.True(t, mat.EqualApprox(&d1, &d2, 1e-15))

	// Zero momentum and zero learning rate leave the weights alone.
	net.TrainStep(inputs, targets, 0, 0)
	assert.True(t, mat.Equal(w2, net.HiddenOutput()))
}

func TestTrainStep_HiddenErrorUsesWeightsBeforeUpdate(t *testing.T) {
	inputs := testInputs(11)
	targets := softTargets(6)
	net := New(3, rng.New(12))

	// Reference computation of the first input→hidden delta.
	w0 := net.InputHidden()
	w1 := net.HiddenOutput()
	hPlus, out := net.forward(inputs)
	eOut := make([]float64, NumOutputs)
	for k := range eOut {
		o := out.AtVec(k)
		eOut[k] = (targets[k] - o) * o * (1 - o)
	}
	wantDelta := mat.NewDense(NumInputs, 3, nil)
	for j := 1; j <= 3; j++ {
		var sum float64
		for k := 0; k < NumOutputs; k++ {
			sum += w1.At(j, k) * eOut[k]
		}
		h := hPlus.AtVec(j)
		eh := sum * h * (1 - h)
		for i := 0; i < NumInputs; i++ {
			wantDelta.Set(i, j-1, 0.1*inputs[i]*eh)
		}
	}

	net.TrainStep(inputs, targets, 0.1, 0.9)

	var gotDelta mat.Dense
	gotDelta.Sub(net.InputHidden(), w0)
	assert.True(t, mat.EqualApprox(wantDelta, &gotDelta, 1e-15))
}

func TestClassify_ConcurrentReaders(t *testing.T) {
	net := New(20, rng.New(13))
	inputs := testInputs(14)
	want := net.Classify(inputs)

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = net.Classify(inputs)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestFromWeights_BadShapes(t *testing.T) {
	_, err := FromWeights(mat.NewDense(10, 3, nil), mat.NewDense(4, NumOutputs, nil))
	assert.Error(t, err)

	_, err = FromWeights(mat.NewDense(NumInputs, 3, nil), mat.NewDense(3, NumOutputs, nil))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	net := New(6, rng.New(15))
	net.TrainStep(testInputs(16), softTargets(1), 0.1, 0.9)

	path := filepath.Join(t.TempDir(), "weights.dgnt")
	training := &checkpoint.Training{Hidden: 6, Epochs: 1, LearningRate: 0.1, Momentum: 0.9, Seed: 15}
	require.NoError(t, net.Save(path, training))

	loaded, header, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.Hidden())
	assert.True(t, mat.Equal(net.InputHidden(), loaded.InputHidden()))
	assert.True(t, mat.Equal(net.HiddenOutput(), loaded.HiddenOutput()))
	require.NotNil(t, header.Training)
	assert.Equal(t, uint64(15), header.Training.Seed)

	inputs := testInputs(17)
	assert.Equal(t, net.Outputs(inputs), loaded.Outputs(inputs))
}
