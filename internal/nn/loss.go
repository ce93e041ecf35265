package nn

// NodeCost returns the squared error of a single output node: (actual - expected)².
func NodeCost(actual, expected float64) float64 {
	diff := actual - expected
	return diff * diff
}
