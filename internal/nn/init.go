package nn

import (
	"math"
	"math/rand"
)

// Uniform fills dst with values drawn from U(-bound, bound).
//
// A nil rng draws from the package-level math/rand source.
func Uniform(dst []float64, bound float64, rng *rand.Rand) {
	sample := rand.Float64 //nolint:gosec // weight initialization is not security-critical
	if rng != nil {
		sample = rng.Float64
	}
	for i := range dst {
		dst[i] = (sample()*2.0 - 1.0) * bound
	}
}

// VarianceScaledBound returns the weight bound 1 / sqrt(fanIn).
//
// Returns 0 for fanIn <= 0; such a layer has no weights to initialize.
func VarianceScaledBound(fanIn int) float64 {
	if fanIn <= 0 {
		return 0
	}
	return 1 / math.Sqrt(float64(fanIn))
}

// NewRand returns a seeded generator, or nil for a negative seed so that
// initialization falls back to the package-level source.
func NewRand(seed int64) *rand.Rand {
	if seed < 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible initialization
}
