package nn

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fdnet/internal/parallel"
)

func seededConfig(seed int64, sizes ...int) NetworkConfig {
	cfg := DefaultNetworkConfig(sizes...)
	cfg.Seed = seed
	return cfg
}

func TestNewNetwork(t *testing.T) {
	net, err := NewNetwork([]int{2, 4, 5, 2})
	require.NoError(t, err)

	layers := net.Layers()
	require.Len(t, layers, 4)
	assert.Equal(t, 4, net.NumLayers())

	for i, size := range []int{2, 4, 5, 2} {
		assert.Equal(t, size, layers[i].FanOut(), "layer %d fanOut", i)
		if i > 0 {
			assert.Equal(t, layers[i-1].FanOut(), layers[i].FanIn(), "layer %d fanIn", i)
		}
	}
	assert.Equal(t, 0, layers[0].FanIn())

	assert.Equal(t, 2, net.InputSize())
	assert.Equal(t, 2, net.OutputSize())
	// (0+2) + (8+4) + (20+5) + (10+2)
	assert.Equal(t, 51, net.NumParams())
}

func TestNewNetwork_Errors(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
	}{
		{"empty", nil},
		{"zero input", []int{0, 3}},
		{"zero hidden", []int{2, 0, 2}},
		{"zero output", []int{2, 3, 0}},
		{"negative", []int{2, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := NewNetwork(tt.sizes)
			assert.Nil(t, net)
			assert.ErrorIs(t, err, ErrDegenerateLayer)
		})
	}
}

func TestNewNetworkWithConfig_Activations(t *testing.T) {
	cfg := seededConfig(1, 3, 4, 2)
	cfg.Hidden = ReLU
	cfg.Output = Softmax

	net, err := NewNetworkWithConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, ReLU, net.Layers()[0].Activation())
	assert.Equal(t, ReLU, net.Layers()[1].Activation())
	assert.Equal(t, Softmax, net.Layers()[2].Activation())

	cfg.Output = Activation(77)
	_, err = NewNetworkWithConfig(cfg)
	assert.Error(t, err)
}

func TestNewNetworkWithConfig_Seeded(t *testing.T) {
	a, err := NewNetworkWithConfig(seededConfig(9, 2, 3, 1))
	require.NoError(t, err)
	b, err := NewNetworkWithConfig(seededConfig(9, 2, 3, 1))
	require.NoError(t, err)

	for i := range a.Layers() {
		assert.Equal(t, a.Layers()[i].Weights(), b.Layers()[i].Weights())
		assert.Equal(t, a.Layers()[i].Biases(), b.Layers()[i].Biases())
	}
}

func TestNewNetworkFromLayers(t *testing.T) {
	net, err := NewNetworkFromLayers(
		NewLayer(3, 4, Sigmoid, nil),
		NewLayer(4, 2, Sigmoid, nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, net.InputSize())
	assert.Equal(t, 2, net.OutputSize())

	_, err = NewNetworkFromLayers()
	assert.ErrorIs(t, err, ErrDegenerateLayer)

	_, err = NewNetworkFromLayers(NewLayer(2, 3, Sigmoid, nil), NewLayer(0, 3, Sigmoid, nil))
	assert.ErrorIs(t, err, ErrDegenerateLayer)

	_, err = NewNetworkFromLayers(NewLayer(2, 3, Sigmoid, nil), NewLayer(4, 1, Sigmoid, nil))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewNetworkFromLayers(NewLayer(2, 3, Sigmoid, nil), nil)
	assert.ErrorIs(t, err, ErrDegenerateLayer)
	_, err = NewNetworkFromLayers(nil)
	assert.ErrorIs(t, err, ErrDegenerateLayer)

	// A zero-input first layer is the input stage.
	net, err = NewNetworkFromLayers(NewLayer(0, 2, Sigmoid, nil), NewLayer(2, 1, Sigmoid, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, net.InputSize())
}

func TestNetworkForward(t *testing.T) {
	net, err := NewNetwork([]int{2, 4, 5, 2})
	require.NoError(t, err)

	out, err := net.Forward([]float64{1, 0})
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, v := range out {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite output %v", v)
	}

	class, err := net.Classify([]float64{1, 0})
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, class)
}

func TestNetworkForward_InputStagePassesThrough(t *testing.T) {
	stage := newTestLayer(0, 2, Sigmoid, nil, []float64{5, 5})
	out := newTestLayer(2, 1, Identity, []float64{1, 10}, []float64{0})

	net, err := NewNetworkFromLayers(stage, out)
	require.NoError(t, err)

	got, err := net.Forward([]float64{3, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{8}, got)

	// A network made only of the input stage returns a copy of its inputs.
	single, err := NewNetwork([]int{3})
	require.NoError(t, err)
	inputs := []float64{1, 2, 3}
	got, err = single.Forward(inputs)
	require.NoError(t, err)
	assert.Equal(t, inputs, got)
	got[0] = 9
	assert.Equal(t, 1.0, inputs[0])
}

func TestNetworkForward_Pure(t *testing.T) {
	net, err := NewNetworkWithConfig(seededConfig(4, 3, 5, 2))
	require.NoError(t, err)
	inputs := []float64{0.1, -0.4, 0.9}

	first, err := net.Forward(inputs)
	require.NoError(t, err)
	second, err := net.Forward(inputs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNetworkForward_ShapeMismatch(t *testing.T) {
	net, err := NewNetwork([]int{2, 3, 1})
	require.NoError(t, err)

	_, err = net.Forward([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrShapeMismatch)

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 2, shapeErr.Want)
	assert.Equal(t, 3, shapeErr.Got)

	_, err = net.Classify(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		biases []float64
		want   int
	}{
		{"clear max", []float64{0.1, 0.2, 3}, 2},
		{"tie keeps lowest index", []float64{0.5, 2, 2}, 1},
		{"all negative", []float64{-1, -2, -3}, 0},
		{"all zero", []float64{0, 0, 0}, 0},
		{"max at zero index", []float64{4, 1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer := newTestLayer(1, 3, Identity, []float64{0, 0, 0}, tt.biases)
			net, err := NewNetworkFromLayers(layer)
			require.NoError(t, err)

			got, err := net.Classify([]float64{1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCostSingle(t *testing.T) {
	layer := newTestLayer(1, 2, Identity, []float64{1, 2}, []float64{0, 0})
	net, err := NewNetworkFromLayers(layer)
	require.NoError(t, err)

	// outputs [2, 4] against [0.5, 4]
	cost, err := net.CostSingle(NewExample([]float64{2}, []float64{0.5, 4}))
	require.NoError(t, err)
	assert.Equal(t, 2.25, cost)

	_, err = net.CostSingle(NewExample([]float64{2}, []float64{1}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = net.CostSingle(NewExample([]float64{2, 3}, []float64{1, 1}))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCostBatch(t *testing.T) {
	net, err := NewNetworkWithConfig(seededConfig(2, 2, 3, 2))
	require.NoError(t, err)

	a := NewExample([]float64{0, 1}, []float64{1, 0})
	b := NewExample([]float64{1, 1}, []float64{0, 1})

	single, err := net.CostSingle(a)
	require.NoError(t, err)
	batch, err := net.CostBatch([]*Example{a})
	require.NoError(t, err)
	assert.Equal(t, single, batch)

	costB, err := net.CostSingle(b)
	require.NoError(t, err)
	mean, err := net.CostBatch([]*Example{a, b})
	require.NoError(t, err)
	assert.InDelta(t, (single+costB)/2, mean, 1e-15)
}

func TestCostBatch_Errors(t *testing.T) {
	net, err := NewNetwork([]int{2, 1})
	require.NoError(t, err)

	_, err = net.CostBatch(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = net.CostBatch([]*Example{})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = net.CostBatch([]*Example{
		NewExample([]float64{1, 0}, []float64{1}),
		NewExample([]float64{1}, []float64{1}),
	})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "example 1")
}

func TestCostIsNaNBeforeTraining(t *testing.T) {
	net, err := NewNetwork([]int{2, 2})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(net.Cost()))
}

func TestSetParallel(t *testing.T) {
	net, err := NewNetwork([]int{2, 2})
	require.NoError(t, err)

	net.SetParallel(parallel.Sequential())
	assert.False(t, net.parallel.Enabled)
}

func TestExample(t *testing.T) {
	inputs := []float64{1, 2}
	expected := []float64{0, 1, 0}
	ex := NewExample(inputs, expected)

	inputs[0] = 100
	expected[0] = 100
	assert.Equal(t, []float64{1, 2}, ex.Inputs())
	assert.Equal(t, []float64{0, 1, 0}, ex.Expected())
	assert.Equal(t, 1, ex.Label())

	assert.Equal(t, 0, NewExample(nil, []float64{0.5, 0.5}).Label())
	assert.Equal(t, 0, NewExample(nil, nil).Label())
}
