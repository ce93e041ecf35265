// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/fdnet/internal/nn"
	"github.com/born-ml/fdnet/internal/parallel"
)

// Activation selects the non-linearity applied by a layer.
type Activation = nn.Activation

// Activations
const (
	Sigmoid  = nn.Sigmoid
	Step     = nn.Step
	SiLU     = nn.SiLU
	Identity = nn.Identity
	ReLU     = nn.ReLU
	Tanh     = nn.Tanh
	Softmax  = nn.Softmax
)

// ParseActivation returns the activation with the given name.
//
// Example:
//
//	act, err := nn.ParseActivation("relu")
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Layers

// Layer represents a fully connected layer with flat row-major weights.
type Layer = nn.Layer

// NewLayer creates a new layer with variance-scaled random weights.
//
// Example:
//
//	layer := nn.NewLayer(784, 128, nn.Sigmoid, nil)
func NewLayer(fanIn, fanOut int, activation Activation, rng *rand.Rand) *Layer {
	return nn.NewLayer(fanIn, fanOut, activation, rng)
}

// NodeCost returns the squared error of one output node.
func NodeCost(actual, expected float64) float64 {
	return nn.NodeCost(actual, expected)
}

// Examples

// Example is an immutable input/expected pair.
type Example = nn.Example

// NewExample copies inputs and expected into a new Example.
func NewExample(inputs, expected []float64) *Example {
	return nn.NewExample(inputs, expected)
}

// Networks

// Network is an ordered sequence of layers.
type Network = nn.Network

// NetworkConfig holds the topology and construction settings of a Network.
type NetworkConfig = nn.NetworkConfig

// ParallelConfig controls how gradient estimation fans out across goroutines.
type ParallelConfig = parallel.Config

// FiniteDifferenceStep is the perturbation used to estimate gradients.
const FiniteDifferenceStep = nn.FiniteDifferenceStep

// DefaultNetworkConfig returns a sigmoid network configuration.
func DefaultNetworkConfig(sizes ...int) NetworkConfig {
	return nn.DefaultNetworkConfig(sizes...)
}

// DefaultParallelConfig returns a parallel configuration sized to the CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig returns a parallel configuration that never spawns goroutines.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}

// NewNetwork creates a sigmoid network with one layer per size.
//
// Example:
//
//	net, err := nn.NewNetwork([]int{2, 4, 5, 2})
func NewNetwork(sizes []int) (*Network, error) {
	return nn.NewNetwork(sizes)
}

// NewNetworkWithConfig creates a network from cfg.
//
// Example:
//
//	cfg := nn.DefaultNetworkConfig(2, 8, 3)
//	cfg.Output = nn.Softmax
//	cfg.Seed = 42
//	net, err := nn.NewNetworkWithConfig(cfg)
func NewNetworkWithConfig(cfg NetworkConfig) (*Network, error) {
	return nn.NewNetworkWithConfig(cfg)
}

// NewNetworkFromLayers assembles a network from existing layers.
func NewNetworkFromLayers(layers ...*Layer) (*Network, error) {
	return nn.NewNetworkFromLayers(layers...)
}

// Errors

// ShapeError describes a vector whose length disagrees with a layer.
type ShapeError = nn.ShapeError

// Common errors.
var (
	ErrShapeMismatch   = nn.ErrShapeMismatch
	ErrEmptyBatch      = nn.ErrEmptyBatch
	ErrDegenerateLayer = nn.ErrDegenerateLayer
)
