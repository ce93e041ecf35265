package nn

import "slices"

// Example is an immutable supervised training pair.
//
// Inputs must match the network's input width and Expected its output width.
// Both are checked when the example is evaluated, not at construction.
type Example struct {
	inputs   []float64
	expected []float64
}

// NewExample copies inputs and expected into a new Example.
func NewExample(inputs, expected []float64) *Example {
	return &Example{
		inputs:   slices.Clone(inputs),
		expected: slices.Clone(expected),
	}
}

// Inputs returns the example's input vector. Callers must not modify it.
func (e *Example) Inputs() []float64 {
	return e.inputs
}

// Expected returns the example's expected output vector. Callers must not modify it.
func (e *Example) Expected() []float64 {
	return e.expected
}

// Label returns the index of the largest expected value, lowest index on ties.
// It is the class a one-hot example encodes.
func (e *Example) Label() int {
	best := 0
	for i, v := range e.expected {
		if v > e.expected[best] {
			best = i
		}
	}
	return best
}
