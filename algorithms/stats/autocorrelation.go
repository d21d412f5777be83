// Package stats provides autocorrelation analysis for periodicity
// estimation.
package stats

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Method represents different computational approaches
type Method int

const (
	// Direct time-domain calculation, O(n²)
	TimeDomain Method = iota

	// FFT-based via the Wiener-Khinchin theorem, O(n log n); faster for
	// large frames, numerically equivalent for the lag search
	FrequencyDomain
)

// AutoCorrelation computes the autocorrelation sequence of a signal.
//
// References:
// - Rabiner, L.R. (1977). "On the use of autocorrelation analysis for pitch detection"
// - Oppenheim, A.V., Schafer, R.W. (2010). "Discrete-Time Signal Processing"
type AutoCorrelation struct {
	method Method
}

// NewAutoCorrelation creates a new autocorrelation calculator
func NewAutoCorrelation(method Method) *AutoCorrelation {
	return &AutoCorrelation{
		method: method,
	}
}

// SetMethod updates the computational method
func (ac *AutoCorrelation) SetMethod(method Method) {
	ac.method = method
}

// Compute calculates c[k] = Σ signal[j]·signal[j+k] for all non-negative
// lags k in 0..len(signal)-1. Returns an empty slice for empty input.
func (ac *AutoCorrelation) Compute(signal []float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}

	switch ac.method {
	case FrequencyDomain:
		return ac.computeFFT(signal)
	default:
		return ac.computeDirect(signal)
	}
}

// computeDirect is the straightforward O(n²) lag loop
func (ac *AutoCorrelation) computeDirect(signal []float64) []float64 {
	n := len(signal)
	result := make([]float64, n)

	for lag := 0; lag < n; lag++ {
		sum := 0.0
		for j := 0; j < n-lag; j++ {
			sum += signal[j] * signal[j+lag]
		}
		result[lag] = sum
	}

	return result
}

// computeFFT uses the Wiener-Khinchin theorem: the autocorrelation is the
// inverse transform of the power spectrum. Zero padding to at least 2n
// avoids circular wrap-around so the result matches the direct method.
func (ac *AutoCorrelation) computeFFT(signal []float64) []float64 {
	n := len(signal)
	padded := make([]float64, nextPowerOf2(2*n))
	copy(padded, signal)

	spectrum := fft.FFTReal(padded)
	for i, v := range spectrum {
		spectrum[i] = v * cmplx.Conj(v)
	}

	inverse := fft.IFFT(spectrum)

	result := make([]float64, n)
	for i := range result {
		result[i] = real(inverse[i])
	}

	return result
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n
func nextPowerOf2(n int) int {
	if n <= 0 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
