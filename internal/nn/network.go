// Package nn implements a small feedforward network trained by finite differences.
//
// This package provides:
//   - Activation: closed set of per-layer non-linearities
//   - Layer: fully connected stage with flat row-major weights
//   - Example: immutable input/expected pair
//   - Network: ordered layers with forward pass, cost and training step
//
// Gradients are estimated numerically: every weight and bias is nudged by
// FiniteDifferenceStep and the change in batch cost is measured. There is
// no backpropagation.
package nn

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/fdnet/internal/parallel"
)

// NetworkConfig holds the topology and construction settings of a Network.
type NetworkConfig struct {
	// Sizes lists the width of every layer, input stage first.
	Sizes []int

	// Hidden is the activation of every layer except the last.
	Hidden Activation

	// Output is the activation of the last layer.
	Output Activation

	// Seed for weight initialization. -1 = package-level source.
	Seed int64

	// Parallel controls how the gradient estimator fans out.
	Parallel parallel.Config
}

// DefaultNetworkConfig returns a sigmoid network of the given sizes with
// random initialization and default parallelism.
func DefaultNetworkConfig(sizes ...int) NetworkConfig {
	return NetworkConfig{
		Sizes:    sizes,
		Hidden:   Sigmoid,
		Output:   Sigmoid,
		Seed:     -1,
		Parallel: parallel.DefaultConfig(),
	}
}

// Network is an ordered sequence of layers where layer i's FanOut equals
// layer i+1's FanIn.
//
// Input stage convention: when the first layer has FanIn() == 0 it is a
// pass-through input stage. Its FanOut is the input width and inputs reach
// layer 1 unchanged. Networks built by NewNetwork always use this
// convention. A first layer with real inputs can be supplied through
// NewNetworkFromLayers.
//
// A Network is not safe for concurrent use. TrainStep needs exclusive
// access for its whole duration.
type Network struct {
	layers   []*Layer
	cost     float64
	parallel parallel.Config
}

// NewNetwork creates a sigmoid network with one layer per entry of sizes.
//
// Example:
//
//	net, err := nn.NewNetwork([]int{2, 4, 5, 2})
func NewNetwork(sizes []int) (*Network, error) {
	return NewNetworkWithConfig(DefaultNetworkConfig(sizes...))
}

// NewNetworkWithConfig creates a network from cfg.
//
// Layer 0 gets FanIn 0 (the input stage); layer i > 0 gets
// FanIn = Sizes[i-1]. Every layer's FanOut is Sizes[i].
//
// Returns ErrDegenerateLayer if Sizes is empty or any size is not positive.
func NewNetworkWithConfig(cfg NetworkConfig) (*Network, error) {
	if len(cfg.Sizes) == 0 {
		return nil, fmt.Errorf("%w: no layer sizes given", ErrDegenerateLayer)
	}
	for i, size := range cfg.Sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrDegenerateLayer, i, size)
		}
	}

	rng := NewRand(cfg.Seed)
	last := len(cfg.Sizes) - 1
	layers := make([]*Layer, 0, len(cfg.Sizes))
	for i, size := range cfg.Sizes {
		fanIn := 0
		if i > 0 {
			fanIn = cfg.Sizes[i-1]
		}
		activation := cfg.Hidden
		if i == last {
			activation = cfg.Output
		}
		if !activation.Valid() {
			return nil, fmt.Errorf("layer %d: invalid activation %v", i, activation)
		}
		layers = append(layers, NewLayer(fanIn, size, activation, rng))
	}

	return newNetwork(layers, cfg.Parallel), nil
}

// NewNetworkFromLayers assembles a network from existing layers.
//
// The first layer may have real inputs (FanIn > 0) or be a zero-input
// stage. Every later layer must have FanIn > 0 and match the previous
// layer's FanOut.
//
// The layers are used directly, not copied.
func NewNetworkFromLayers(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers given", ErrDegenerateLayer)
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("%w: layer %d is nil", ErrDegenerateLayer, i)
		}
	}
	for i := 1; i < len(layers); i++ {
		if layers[i].fanIn == 0 {
			return nil, fmt.Errorf("%w: layer %d", ErrDegenerateLayer, i)
		}
		if err := checkLen("NewNetworkFromLayers", fmt.Sprintf("layer %d inputs", i),
			layers[i-1].fanOut, layers[i].fanIn); err != nil {
			return nil, err
		}
	}
	return newNetwork(slices.Clone(layers), parallel.DefaultConfig()), nil
}

func newNetwork(layers []*Layer, cfg parallel.Config) *Network {
	return &Network{
		layers:   layers,
		cost:     math.NaN(),
		parallel: cfg,
	}
}

// SetParallel replaces the gradient estimator's parallel configuration.
func (n *Network) SetParallel(cfg parallel.Config) {
	n.parallel = cfg
}

// Forward chains every layer's forward pass. The network is not mutated.
//
// Returns a *ShapeError if len(inputs) != InputSize().
func (n *Network) Forward(inputs []float64) ([]float64, error) {
	start := 0
	if first := n.layers[0]; first.fanIn == 0 {
		if err := checkLen("Network.Forward", "inputs", first.fanOut, len(inputs)); err != nil {
			return nil, err
		}
		start = 1
	}

	outputs := slices.Clone(inputs)
	for i := start; i < len(n.layers); i++ {
		var err error
		outputs, err = n.layers[i].Forward(outputs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return outputs, nil
}

// Classify runs Forward and returns the index of the largest output.
//
// The scan starts from index 0 with a best value of 0 and only moves on a
// strictly greater output, so ties keep the lowest index and a network
// whose outputs are all <= 0 classifies as 0.
func (n *Network) Classify(inputs []float64) (int, error) {
	outputs, err := n.Forward(inputs)
	if err != nil {
		return 0, err
	}

	best, bestVal := 0, 0.0
	for i, v := range outputs {
		if v > bestVal {
			best, bestVal = i, v
		}
	}
	return best, nil
}

// CostSingle returns Σ NodeCost(output[k], expected[k]) for one example.
func (n *Network) CostSingle(example *Example) (float64, error) {
	if err := checkLen("Network.CostSingle", "expected", n.OutputSize(), len(example.expected)); err != nil {
		return 0, err
	}

	outputs, err := n.Forward(example.inputs)
	if err != nil {
		return 0, err
	}

	var cost float64
	for k, out := range outputs {
		cost += NodeCost(out, example.expected[k])
	}
	return cost, nil
}

// CostBatch returns the mean CostSingle over examples.
//
// Returns ErrEmptyBatch for zero examples instead of a NaN mean.
func (n *Network) CostBatch(examples []*Example) (float64, error) {
	if len(examples) == 0 {
		return 0, ErrEmptyBatch
	}

	costs := make([]float64, len(examples))
	for i, ex := range examples {
		c, err := n.CostSingle(ex)
		if err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		costs[i] = c
	}
	return stat.Mean(costs, nil), nil
}

// Cost returns the baseline batch cost measured by the most recent
// TrainStep, or NaN before the first step. It is for observability only.
func (n *Network) Cost() float64 {
	return n.cost
}

// Layers returns the network's layers. Callers must treat them as read-only.
func (n *Network) Layers() []*Layer {
	return n.layers
}

// NumLayers returns the number of layers, input stage included.
func (n *Network) NumLayers() int {
	return len(n.layers)
}

// InputSize returns the length Forward expects.
func (n *Network) InputSize() int {
	if first := n.layers[0]; first.fanIn > 0 {
		return first.fanIn
	}
	return n.layers[0].fanOut
}

// OutputSize returns the length Forward produces.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].fanOut
}

// NumParams returns the number of trainable scalars across all layers.
func (n *Network) NumParams() int {
	total := 0
	for _, l := range n.layers {
		total += l.NumParams()
	}
	return total
}
