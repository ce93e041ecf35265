// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a minimal feedforward network trained by finite differences.
//
// # Overview
//
// This package contains:
//   - Layer: fully connected stage (weighted sum + activation)
//   - Activations: Sigmoid, Step, SiLU, Identity, ReLU, Tanh, Softmax
//   - Example: immutable input/expected pair
//   - Network: ordered layers with Forward, Classify, CostSingle, CostBatch
//     and TrainStep
//
// # Basic Usage
//
//	import "github.com/born-ml/fdnet/nn"
//
//	func main() {
//	    net, err := nn.NewNetwork([]int{2, 3, 2})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    examples := []*nn.Example{
//	        nn.NewExample([]float64{0, 1}, []float64{0, 1}),
//	        nn.NewExample([]float64{1, 1}, []float64{1, 0}),
//	    }
//
//	    for i := 0; i < 1000; i++ {
//	        if err := net.TrainStep(examples, 0.5); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	    fmt.Println("cost:", net.Cost())
//	}
//
// # Topology
//
// NewNetwork builds one layer per size. The first layer has no inputs and
// acts as a pass-through input stage whose width is the first size:
//
//	net, _ := nn.NewNetwork([]int{2, 4, 5, 2}) // 2 inputs, 2 outputs
//
// Networks whose first layer has real weights are assembled from layers:
//
//	net, _ := nn.NewNetworkFromLayers(
//	    nn.NewLayer(2, 4, nn.Tanh, nil),
//	    nn.NewLayer(4, 2, nn.Softmax, nil),
//	)
//
// # Training
//
// TrainStep estimates every partial derivative of the batch cost by
// nudging one parameter at a time by FiniteDifferenceStep (0.1), then
// applies gradient descent. Weights move by gradient * learnRate; biases
// move by the raw gradient. The estimation fans out across CPU cores when
// the network's ParallelConfig enables it.
//
// # Errors
//
// Vectors of the wrong length yield a *ShapeError wrapping
// ErrShapeMismatch. CostBatch over zero examples returns ErrEmptyBatch.
// Invalid topologies return ErrDegenerateLayer.
package nn
