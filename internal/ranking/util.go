package ranking

import "math"

// roundFloat rounds v to the given number of decimal places, halves to even.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.RoundToEven(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*factor) / factor
}
