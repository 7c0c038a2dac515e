package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Min returns the minimum value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Median calculates the linear-interpolated median
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Quantile calculates the q-th quantile (0 <= q <= 1) using linear
// interpolation between closest ranks. Empty input returns 0.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}

	// Create a copy to avoid modifying the original slice
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	base := int(math.Floor(pos))
	if base+1 >= len(sorted) {
		return sorted[base]
	}

	return sorted[base] + (pos-float64(base))*(sorted[base+1]-sorted[base])
}

// Clamp restricts v to the inclusive interval [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 restricts v to the unit interval
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Normalize min-max normalizes v into [0, 1] over the given range.
// A degenerate range maps every value to 0.5.
func Normalize(v, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	return (v - min) / (max - min)
}
