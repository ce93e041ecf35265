package nn

import (
	"fmt"
	"slices"
	"sync"

	"github.com/born-ml/fdnet/internal/parallel"
)

// FiniteDifferenceStep is the perturbation H added to one parameter at a
// time when estimating its partial derivative.
const FiniteDifferenceStep = 0.1

// TrainStep performs one full finite-difference gradient descent step.
//
//  1. baseline = CostBatch(examples), exposed afterwards through Cost().
//  2. For every layer, every weight and then every bias: set it to
//     original + H, measure CostBatch, restore the original, and store
//     (perturbed - baseline) / H as its gradient.
//  3. ApplyGradients(learnRate) on every layer.
//
// One batch cost evaluation runs per trainable scalar plus one for the
// baseline. Parameters are only mutated in step 3, so a failing step
// leaves the network unchanged.
func (n *Network) TrainStep(examples []*Example, learnRate float64) error {
	baseline, err := n.EstimateGradients(examples)
	if err != nil {
		return fmt.Errorf("train step: %w", err)
	}
	n.cost = baseline

	for _, layer := range n.layers {
		layer.ApplyGradients(learnRate)
	}
	return nil
}

// EstimateGradients overwrites every layer's gradient buffers with
// finite-difference estimates over examples and returns the baseline cost.
// Weights and biases are left untouched.
func (n *Network) EstimateGradients(examples []*Example) (float64, error) {
	baseline, err := n.CostBatch(examples)
	if err != nil {
		return 0, err
	}

	for i := range n.layers {
		if err := n.estimateLayer(i, examples, baseline); err != nil {
			return baseline, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return baseline, nil
}

// estimateLayer fills the gradients of layer li.
//
// Parameter indices are split into chunks. Each chunk perturbs a private
// copy of the layer's parameters inside a shallow view of the network, so
// chunks never observe each other's perturbations, and each writes only its
// own gradient slots. The copies never touch gradient buffers.
func (n *Network) estimateLayer(li int, examples []*Example, baseline float64) error {
	layer := n.layers[li]
	numWeights := len(layer.weights)

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.ForRange(layer.NumParams(), func(start, end int) {
		scratch := layer.cloneParams()
		view := n.withLayer(li, scratch)

		for k := start; k < end; k++ {
			grad, err := view.partial(scratch.param(k), examples, baseline)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			if k < numWeights {
				layer.gradWeights[k] = grad
			} else {
				layer.gradBiases[k-numWeights] = grad
			}
		}
	}, n.parallel)

	return firstErr
}

// partial estimates ∂cost/∂p for a parameter of one of n's layers.
// The saved original is written back, so p is restored bit for bit.
func (n *Network) partial(p *float64, examples []*Example, baseline float64) (float64, error) {
	original := *p
	*p = original + FiniteDifferenceStep
	perturbed, err := n.CostBatch(examples)
	*p = original
	if err != nil {
		return 0, err
	}
	return (perturbed - baseline) / FiniteDifferenceStep, nil
}

// withLayer returns a shallow copy of n with layer li replaced by l.
func (n *Network) withLayer(li int, l *Layer) *Network {
	layers := slices.Clone(n.layers)
	layers[li] = l
	return &Network{layers: layers, cost: n.cost, parallel: n.parallel}
}

// param returns the k-th trainable scalar: weights first, then biases.
func (l *Layer) param(k int) *float64 {
	if k < len(l.weights) {
		return &l.weights[k]
	}
	return &l.biases[k-len(l.weights)]
}
