package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrEmptyBatch      = errors.New("empty batch: cost is undefined for zero examples")
	ErrDegenerateLayer = errors.New("degenerate layer: only the first layer may have zero inputs")
)

// ShapeError describes a vector whose length disagrees with a layer dimension.
type ShapeError struct {
	Op   string // Operation that detected the mismatch (e.g., "Layer.Forward")
	What string // Which vector was checked (e.g., "inputs", "expected")
	Want int    // Length required by the layer
	Got  int    // Length supplied by the caller
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want length %d, got %d", e.Op, e.What, e.Want, e.Got)
}

// Unwrap makes errors.Is(err, ErrShapeMismatch) hold for every ShapeError.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func checkLen(op, what string, want, got int) error {
	if want != got {
		return &ShapeError{Op: op, What: what, Want: want, Got: got}
	}
	return nil
}
