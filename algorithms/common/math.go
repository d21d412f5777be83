package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// WeightedMean calculates the weighted arithmetic mean using gonum.
// Returns 0 when the weights sum to zero.
func WeightedMean(data, weights []float64) float64 {
	if len(data) == 0 || len(data) != len(weights) {
		return 0.0
	}
	if floats.Sum(weights) <= 0 {
		return 0.0
	}
	return stat.Mean(data, weights)
}

// Variance calculates the sample variance of a slice using gonum
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.Variance(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return math.Sqrt(Variance(data))
}

// Median calculates the median of a slice. Zero and negative values are
// kept; callers that want the median of voiced frames only should filter
// first (see MedianPositive).
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}

// MedianPositive calculates the median of the strictly positive values in
// a slice. Unvoiced frames are conventionally stored as frequency 0, so
// this gives the median over voiced frames only.
func MedianPositive(data []float64) float64 {
	filtered := make([]float64, 0, len(data))
	for _, v := range data {
		if v > 0 {
			filtered = append(filtered, v)
		}
	}
	return Median(filtered)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// Clamp restricts a value to the [lo, hi] range
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// IsFinite reports whether every value in the slice is a finite number.
// Microphone callbacks occasionally hand over NaN-laden buffers on device
// switches, so estimators gate on this before doing any arithmetic.
func IsFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
