// Package temporal provides time-domain energy analysis for audio frames:
// RMS measurement, silence gating, and isolation of the periodic region of
// a frame by trimming low-amplitude edges.
package temporal

import (
	"math"
)

// FrameRMS calculates the root mean square amplitude of a single frame.
// Returns 0 for an empty frame.
func FrameRMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, s := range frame {
		sumSquares += s * s
	}

	return math.Sqrt(sumSquares / float64(len(frame)))
}

// IsSilent reports whether a frame's RMS falls below the given threshold.
// Silence is an expected state for a live microphone, not an error.
func IsSilent(frame []float64, rmsThreshold float64) bool {
	return FrameRMS(frame) < rmsThreshold
}

// TrimLowAmplitude strips leading and trailing samples whose absolute
// value stays below the threshold, isolating the periodic region of the
// frame. The returned slice aliases the input; it is empty when no sample
// crosses the threshold.
func TrimLowAmplitude(frame []float64, threshold float64) []float64 {
	start := 0
	for start < len(frame) && math.Abs(frame[start]) < threshold {
		start++
	}

	end := len(frame)
	for end > start && math.Abs(frame[end-1]) < threshold {
		end--
	}

	return frame[start:end]
}

// Energy computes short-time energy features over a longer signal. Hosts
// use it to pre-screen recordings before running frame-by-frame tracking.
type Energy struct {
	frameSize  int
	hopSize    int
	sampleRate int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize, sampleRate int) *Energy {
	return &Energy{
		frameSize:  frameSize,
		hopSize:    hopSize,
		sampleRate: sampleRate,
	}
}

// ComputeShortTimeEnergy calculates RMS energy for overlapping frames
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	if len(signal) < e.frameSize || e.hopSize <= 0 || e.frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	energies := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		if endIdx > len(signal) {
			break
		}

		energies[i] = FrameRMS(signal[startIdx:endIdx])
	}

	return energies
}

// ComputeLogEnergy calculates log energy in dB scale
func (e *Energy) ComputeLogEnergy(signal []float64, floor float64) []float64 {
	energies := e.ComputeShortTimeEnergy(signal)
	logEnergies := make([]float64, len(energies))

	for i, energy := range energies {
		if energy < floor {
			energy = floor
		}
		logEnergies[i] = 20.0 * math.Log10(energy)
	}

	return logEnergies
}

// SilentRatio reports the fraction of frames whose RMS falls below the
// threshold. A recording that is mostly silent is not worth tracking.
func (e *Energy) SilentRatio(signal []float64, rmsThreshold float64) float64 {
	energies := e.ComputeShortTimeEnergy(signal)
	if len(energies) == 0 {
		return 1.0
	}

	silent := 0
	for _, energy := range energies {
		if energy < rmsThreshold {
			silent++
		}
	}

	return float64(silent) / float64(len(energies))
}
