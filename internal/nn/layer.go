package nn

import (
	"fmt"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Layer implements one fully connected stage: weighted sum plus activation.
//
// Performs the transformation: y[o] = activation(b[o] + Σ_i x[i] * W[o][i])
// where:
//   - x is the input vector with length fanIn
//   - W is the weight matrix, stored flat and row-major by output node:
//     W[o][i] lives at weights[o*fanIn + i]
//   - b is the bias vector with length fanOut
//   - y is the output vector with length fanOut
//
// A layer with fanIn == 0 is legal and always outputs activation(bias).
//
// The gradient buffers mirror weights and biases. They hold the partial
// derivatives estimated by the most recent Network.TrainStep and are
// overwritten wholesale on every step.
type Layer struct {
	fanIn       int
	fanOut      int
	weights     []float64 // [fanOut * fanIn]
	biases      []float64 // [fanOut]
	activation  Activation
	gradWeights []float64
	gradBiases  []float64
}

// NewLayer creates a new Layer.
//
// Weights are drawn from U(-1, 1) / sqrt(fanIn); biases from U(-1, 1).
// When fanIn is 0 the layer has no weights, so nothing is divided by zero.
//
// Parameters:
//   - fanIn: Number of nodes in the previous layer
//   - fanOut: Number of nodes in this layer
//   - activation: Non-linearity applied to every output node
//   - rng: Random source for initialization, nil for the package-level source
//
// Panics if a dimension is negative or the activation is unknown.
func NewLayer(fanIn, fanOut int, activation Activation, rng *rand.Rand) *Layer {
	if fanIn < 0 || fanOut < 0 {
		panic(fmt.Sprintf("NewLayer: negative dimensions %dx%d", fanIn, fanOut))
	}
	if !activation.Valid() {
		panic(fmt.Sprintf("NewLayer: %v", activation))
	}

	l := &Layer{
		fanIn:       fanIn,
		fanOut:      fanOut,
		weights:     make([]float64, fanIn*fanOut),
		biases:      make([]float64, fanOut),
		activation:  activation,
		gradWeights: make([]float64, fanIn*fanOut),
		gradBiases:  make([]float64, fanOut),
	}

	Uniform(l.weights, VarianceScaledBound(fanIn), rng)
	Uniform(l.biases, 1, rng)

	return l
}

// index maps (nodeIn, nodeOut) to the flat weight position.
func (l *Layer) index(nodeIn, nodeOut int) int {
	return nodeOut*l.fanIn + nodeIn
}

// row returns the contiguous weights feeding nodeOut.
func (l *Layer) row(nodeOut int) []float64 {
	start := nodeOut * l.fanIn
	return l.weights[start : start+l.fanIn]
}

// Forward computes the output of the layer.
//
// Every weighted input is computed before the activation runs, so
// position-aware activations see the whole layer. The layer is not mutated.
//
// Returns a *ShapeError if len(inputs) != FanIn().
func (l *Layer) Forward(inputs []float64) ([]float64, error) {
	if err := checkLen("Layer.Forward", "inputs", l.fanIn, len(inputs)); err != nil {
		return nil, err
	}

	weighted := make([]float64, l.fanOut)
	for o := range weighted {
		weighted[o] = l.biases[o]
		if l.fanIn > 0 {
			weighted[o] += floats.Dot(inputs, l.row(o))
		}
	}

	outputs := make([]float64, l.fanOut)
	l.activation.ApplyAll(weighted, outputs)
	return outputs, nil
}

// ApplyGradients performs one gradient-descent update from the stored gradients.
//
//	weight -= gradWeight * learnRate
//	bias   -= gradBias
//
// NOTE: the bias update is deliberately NOT scaled by learnRate. This
// asymmetry is kept for behavioral parity with the reference trainer and
// is asserted by tests; do not "fix" it here without changing those tests.
func (l *Layer) ApplyGradients(learnRate float64) {
	floats.Sub(l.biases, l.gradBiases)
	floats.AddScaled(l.weights, -learnRate, l.gradWeights)
}

// Clone returns a deep copy of the layer, gradients included.
func (l *Layer) Clone() *Layer {
	return &Layer{
		fanIn:       l.fanIn,
		fanOut:      l.fanOut,
		weights:     slices.Clone(l.weights),
		biases:      slices.Clone(l.biases),
		activation:  l.activation,
		gradWeights: slices.Clone(l.gradWeights),
		gradBiases:  slices.Clone(l.gradBiases),
	}
}

// cloneParams copies weights and biases only. The gradient buffers of the
// copy are nil, so it never reads the live layer's gradients.
func (l *Layer) cloneParams() *Layer {
	return &Layer{
		fanIn:      l.fanIn,
		fanOut:     l.fanOut,
		weights:    slices.Clone(l.weights),
		biases:     slices.Clone(l.biases),
		activation: l.activation,
	}
}

// FanIn returns the number of input nodes.
func (l *Layer) FanIn() int {
	return l.fanIn
}

// FanOut returns the number of output nodes.
func (l *Layer) FanOut() int {
	return l.fanOut
}

// Activation returns the layer's activation.
func (l *Layer) Activation() Activation {
	return l.activation
}

// NumParams returns the number of trainable scalars (weights plus biases).
func (l *Layer) NumParams() int {
	return len(l.weights) + len(l.biases)
}

// Weight returns the weight connecting nodeIn to nodeOut.
func (l *Layer) Weight(nodeIn, nodeOut int) float64 {
	return l.weights[l.index(nodeIn, nodeOut)]
}

// Bias returns the bias of nodeOut.
func (l *Layer) Bias(nodeOut int) float64 {
	return l.biases[nodeOut]
}

// Weights returns a copy of the flat weight buffer, indexed nodeOut*FanIn()+nodeIn.
func (l *Layer) Weights() []float64 {
	return slices.Clone(l.weights)
}

// Biases returns a copy of the bias vector.
func (l *Layer) Biases() []float64 {
	return slices.Clone(l.biases)
}

// GradientWeights returns a copy of the most recently estimated weight gradients.
func (l *Layer) GradientWeights() []float64 {
	return slices.Clone(l.gradWeights)
}

// GradientBiases returns a copy of the most recently estimated bias gradients.
func (l *Layer) GradientBiases() []float64 {
	return slices.Clone(l.gradBiases)
}
