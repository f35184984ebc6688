package utils

import "math"

// NormalizeL2 scales an embedding vector in place to unit length,
// accumulating the squared norm in float64 to limit rounding drift.
// A zero vector stays untouched.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range x {
		x[i] *= inv
	}
}
