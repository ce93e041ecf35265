package nn

import (
	"fmt"
	"math"
	"strings"
)

// Activation selects the non-linearity applied to every output node of a layer.
//
// Activations are stateless. Every kind shares the position-aware signature:
// it receives the full slice of a layer's weighted inputs plus the index of
// the node being evaluated, so normalizing kinds such as Softmax can see
// their sibling values. Scalar kinds only read weighted[index].
//
// Example:
//
//	layer := nn.NewLayer(2, 3, nn.Sigmoid, nil)
type Activation int

// Supported activations.
const (
	// Sigmoid returns 1 / (1 + e^-x), which lies in (0, 1). It is the zero value.
	Sigmoid Activation = iota

	// Step returns 1 for x > 0 and 0 otherwise (including x == 0).
	Step

	// SiLU returns x * sigmoid(x).
	SiLU

	// Identity returns x unchanged.
	Identity

	// ReLU returns max(0, x).
	ReLU

	// Tanh returns the hyperbolic tangent of x.
	Tanh

	// Softmax returns e^(x_i - max) / Σ e^(x_j - max) over the whole layer.
	Softmax
)

var activationNames = [...]string{
	Sigmoid:  "sigmoid",
	Step:     "step",
	SiLU:     "silu",
	Identity: "identity",
	ReLU:     "relu",
	Tanh:     "tanh",
	Softmax:  "softmax",
}

// String returns the lowercase configuration name of the activation.
func (a Activation) String() string {
	if a.Valid() {
		return activationNames[a]
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

// Valid reports whether a names a supported activation.
func (a Activation) Valid() bool {
	return a >= 0 && int(a) < len(activationNames)
}

// ParseActivation returns the activation with the given name (case-insensitive).
func ParseActivation(name string) (Activation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range activationNames {
		if n == name {
			return Activation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown activation %q", name)
}

// Apply evaluates the activation for node index given the layer's weighted inputs.
func (a Activation) Apply(weighted []float64, index int) float64 {
	x := weighted[index]
	switch a {
	case Step:
		return step(x)
	case Sigmoid:
		return sigmoid(x)
	case SiLU:
		return silu(x)
	case Identity:
		return x
	case ReLU:
		return math.Max(0, x)
	case Tanh:
		return math.Tanh(x)
	case Softmax:
		maxVal, sum := softmaxNorm(weighted)
		return math.Exp(x-maxVal) / sum
	default:
		panic(fmt.Sprintf("nn: unsupported activation %v", a))
	}
}

// ApplyAll writes the activation of every node into dst.
//
// The result matches calling Apply for each index. Softmax computes its
// normalizer once instead of once per node.
func (a Activation) ApplyAll(weighted, dst []float64) {
	if a == Softmax {
		maxVal, sum := softmaxNorm(weighted)
		for i, x := range weighted {
			dst[i] = math.Exp(x-maxVal) / sum
		}
		return
	}
	for i := range weighted {
		dst[i] = a.Apply(weighted, i)
	}
}

// Derivative returns the closed-form derivative of the activation at node index.
//
// For Softmax this is the diagonal Jacobian term s_i * (1 - s_i). Step is
// treated as flat everywhere. The finite-difference trainer does not use it.
func (a Activation) Derivative(weighted []float64, index int) float64 {
	x := weighted[index]
	switch a {
	case Step:
		return 0
	case Sigmoid:
		return sigmoidDerivative(x)
	case SiLU:
		s := sigmoid(x)
		return s + x*s*(1-s)
	case Identity:
		return 1
	case ReLU:
		if x > 0 {
			return 1
		}
		return 0
	case Tanh:
		t := math.Tanh(x)
		return 1 - t*t
	case Softmax:
		s := a.Apply(weighted, index)
		return s * (1 - s)
	default:
		panic(fmt.Sprintf("nn: unsupported activation %v", a))
	}
}

func step(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func sigmoidDerivative(x float64) float64 {
	s := sigmoid(x)
	return s * (1 - s)
}

func silu(x float64) float64 {
	return x * sigmoid(x)
}

// softmaxNorm returns the maximum weighted input and the shifted exponent sum.
func softmaxNorm(weighted []float64) (maxVal, sum float64) {
	maxVal = math.Inf(-1)
	for _, x := range weighted {
		if x > maxVal {
			maxVal = x
		}
	}
	for _, x := range weighted {
		sum += math.Exp(x - maxVal)
	}
	return maxVal, sum
}
