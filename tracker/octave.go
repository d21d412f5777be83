package tracker

import (
	"math"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// Autocorrelation locks onto a harmonic (2x, 3x) or sub-harmonic (1/2,
// 1/3) of the true pitch when overtone energy dominates the fundamental.
// The bands below are deliberately tight: folding a genuine interval jump
// creates a discontinuity, which is worse than letting a brief octave
// error through.
var octaveRatios = []float64{2.0, 0.5, 3.0, 1.0 / 3.0}

// correctOctave folds an abrupt harmonic or sub-harmonic misdetection
// back onto the recent stable frequency. Gradual transitions (glides,
// vibrato) are never folded.
func (t *Tracker) correctOctave(frequency float64) float64 {
	if len(t.history) < 3 {
		return frequency
	}

	frequencies := make([]float64, len(t.history))
	for i, entry := range t.history {
		frequencies[i] = entry.frequency
	}

	// Median rather than mean: a single earlier outlier must not drag
	// the reference
	reference := common.MedianPositive(frequencies)
	if reference <= 0 {
		return frequency
	}

	if t.isGradual(frequencies, frequency) {
		return frequency
	}

	ratio := frequency / reference
	for _, candidate := range octaveRatios {
		if math.Abs(ratio-candidate)/candidate <= t.cfg.OctaveTolerance {
			corrected := frequency / candidate
			if !t.inRange(corrected) {
				return frequency
			}
			t.log.Debug("octave error folded", logging.Fields{
				"estimate":  frequency,
				"reference": reference,
				"ratio":     candidate,
				"corrected": corrected,
			})
			return corrected
		}
	}

	return frequency
}

// isGradual classifies the incoming transition: the last three
// consecutive deltas must share a sign and stay under the per-frame
// change bound. Steady pitch produces near-zero deltas with no sign, so
// an abrupt jump out of a held note is correctly non-gradual.
func (t *Tracker) isGradual(frequencies []float64, next float64) bool {
	if len(frequencies) < 3 {
		return false
	}

	n := len(frequencies)
	recent := []float64{frequencies[n-3], frequencies[n-2], frequencies[n-1], next}
	for i := 1; i < len(recent); i++ {
		delta := recent[i] - recent[i-1]
		if delta == 0 || math.Abs(delta) > t.cfg.MaxGradualDeltaHz {
			return false
		}
		if i > 1 {
			prev := recent[i-1] - recent[i-2]
			if (delta > 0) != (prev > 0) {
				return false
			}
		}
	}

	return true
}
