// Package tonal implements single-frame fundamental frequency estimation
// for monophonic voice signals.
package tonal

import (
	"math"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/stats"
	"github.com/RyanBlaney/sonido-pitch/algorithms/temporal"
)

// Estimate is the tagged result of one frame of pitch estimation. Voiced
// distinguishes "no pitch this frame" from a detection, so call sites
// handle both cases explicitly instead of testing a magic frequency.
// Clarity is still populated on low-clarity rejections so a caller can
// tell "nothing there" from "weak signal".
type Estimate struct {
	Frequency float64 `json:"frequency"` // Fundamental frequency in Hz, 0 when unvoiced
	Clarity   float64 `json:"clarity"`   // Normalized correlation peak (0-1)
	RMS       float64 `json:"rms"`       // Frame RMS amplitude
	Voiced    bool    `json:"voiced"`    // Whether a pitch was detected
}

// Params contains parameters for the autocorrelation estimator
type Params struct {
	SampleRate int `json:"sample_rate"`
	WindowSize int `json:"window_size"`

	// Frequency range constraints for the lag search
	MinFreq float64 `json:"min_freq"` // Minimum frequency (Hz)
	MaxFreq float64 `json:"max_freq"` // Maximum frequency (Hz)

	// Quality thresholds
	ClarityThreshold    float64 `json:"clarity_threshold"`     // Minimum normalized peak accepted
	RMSSilenceThreshold float64 `json:"rms_silence_threshold"` // Minimum frame energy
	TrimAmplitude       float64 `json:"trim_amplitude"`        // Edge trim threshold
	MinTrimmedLength    int     `json:"min_trimmed_length"`    // Minimum usable samples after trim

	// Periodicity is harder to establish when the buffer holds few cycles,
	// so the clarity bar is relaxed below the cutoff
	LowFreqCutoff     float64 `json:"low_freq_cutoff"`
	LowFreqRelaxation float64 `json:"low_freq_relaxation"`

	// Correlation method (direct or FFT-based)
	Method stats.Method `json:"method"`
}

// DefaultParams returns estimator parameters tuned for vocal training:
// the range spans low male voice to high female voice, and thresholds
// favor rejecting a doubtful frame over emitting a wrong one.
func DefaultParams(sampleRate int) Params {
	return Params{
		SampleRate:          sampleRate,
		WindowSize:          2048,
		MinFreq:             80.0,
		MaxFreq:             1000.0,
		ClarityThreshold:    0.86,
		RMSSilenceThreshold: 0.01,
		TrimAmplitude:       0.2,
		MinTrimmedLength:    100,
		LowFreqCutoff:       200.0,
		LowFreqRelaxation:   0.9,
		Method:              stats.TimeDomain,
	}
}

// Estimator performs autocorrelation-based pitch estimation on single
// audio frames.
//
// References:
// - Rabiner, L.R. (1977). "On the use of autocorrelation analysis for pitch detection"
// - Boersma, P. (1993). "Accurate short-term analysis of the fundamental frequency"
type Estimator struct {
	params   Params
	autocorr *stats.AutoCorrelation
}

// NewEstimator creates an estimator with default parameters
func NewEstimator(sampleRate int) *Estimator {
	return NewEstimatorWithParams(DefaultParams(sampleRate))
}

// NewEstimatorWithParams creates an estimator with custom parameters
func NewEstimatorWithParams(params Params) *Estimator {
	return &Estimator{
		params:   params,
		autocorr: stats.NewAutoCorrelation(params.Method),
	}
}

// Params returns the current parameters
func (e *Estimator) Params() Params {
	return e.params
}

// EstimateFrame estimates the fundamental frequency of one audio frame.
// Every failure mode (silence, degenerate input, weak or out-of-window
// correlation) degrades to an unvoiced Estimate; the method never panics
// and never produces NaN or Inf.
func (e *Estimator) EstimateFrame(frame []float64) Estimate {
	if len(frame) == 0 || !common.IsFinite(frame) {
		return Estimate{}
	}

	// Hosts that buffer more than one window hand over the tail
	if e.params.WindowSize > 0 && len(frame) > e.params.WindowSize {
		frame = frame[len(frame)-e.params.WindowSize:]
	}

	rms := temporal.FrameRMS(frame)
	if rms < e.params.RMSSilenceThreshold {
		return Estimate{RMS: rms}
	}

	buf := temporal.TrimLowAmplitude(frame, e.params.TrimAmplitude)
	if len(buf) < e.params.MinTrimmedLength {
		return Estimate{RMS: rms}
	}

	c := e.autocorr.Compute(buf)
	if c[0] <= 0 {
		return Estimate{RMS: rms}
	}

	// Skip the initial strictly-descending run so the search cannot land
	// on the trivial self-match at lag 0
	descent := 0
	for descent+1 < len(c) && c[descent+1] < c[descent] {
		descent++
	}

	minLag, maxLag := e.lagWindow(len(c))
	if descent > minLag {
		minLag = descent
	}
	if minLag >= maxLag {
		return Estimate{RMS: rms}
	}

	bestLag := -1
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if c[lag] > bestCorr {
			bestCorr = c[lag]
			bestLag = lag
		}
	}
	if bestLag <= 0 {
		return Estimate{RMS: rms}
	}

	clarity := e.clarity(c, bestLag, len(buf))

	threshold := e.params.ClarityThreshold
	if float64(e.params.SampleRate)/float64(bestLag) < e.params.LowFreqCutoff {
		threshold *= e.params.LowFreqRelaxation
	}
	if clarity < threshold {
		// Report the clarity anyway so callers can tell a weak signal
		// from pure silence
		return Estimate{Clarity: clarity, RMS: rms}
	}

	lag := e.refineLag(c, bestLag, len(buf))
	if lag <= 0 {
		return Estimate{Clarity: clarity, RMS: rms}
	}

	frequency := float64(e.params.SampleRate) / lag
	if math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return Estimate{Clarity: clarity, RMS: rms}
	}

	return Estimate{
		Frequency: frequency,
		Clarity:   clarity,
		RMS:       rms,
		Voiced:    true,
	}
}

// lagWindow maps the configured frequency range onto lag bounds within
// the correlation sequence.
func (e *Estimator) lagWindow(corrLen int) (minLag, maxLag int) {
	minLag = 1
	if e.params.MaxFreq > 0 {
		minLag = int(float64(e.params.SampleRate) / e.params.MaxFreq)
	}
	if minLag < 1 {
		minLag = 1
	}

	maxLag = corrLen - 1
	if e.params.MinFreq > 0 {
		maxLag = int(float64(e.params.SampleRate) / e.params.MinFreq)
	}
	if maxLag > corrLen-1 {
		maxLag = corrLen - 1
	}

	return minLag, maxLag
}

// refineLag refines the winning lag to sub-sample precision. The raw
// correlation at lag k sums only n-k terms, and that linear taper drags
// the parabola vertex off the true period, so the three points around the
// peak are rescaled to full overlap before fitting.
func (e *Estimator) refineLag(c []float64, bestLag, n int) float64 {
	if bestLag <= 0 || bestLag >= len(c)-1 || bestLag >= n-1 {
		return float64(bestLag)
	}

	window := []float64{
		c[bestLag-1] * float64(n) / float64(n-bestLag+1),
		c[bestLag] * float64(n) / float64(n-bestLag),
		c[bestLag+1] * float64(n) / float64(n-bestLag-1),
	}

	refined := float64(bestLag-1) + common.ParabolicPeak(window, 1)
	return common.Clamp(refined, float64(bestLag-1), float64(bestLag+1))
}

// clarity is the correlation peak normalized by the zero-lag energy, with
// compensation for the shrinking overlap at higher lags: the raw sum at
// lag T covers only n-T terms, which would bias low pitches toward
// rejection.
func (e *Estimator) clarity(c []float64, lag, n int) float64 {
	if c[0] <= 0 || n <= lag {
		return 0.0
	}

	raw := (c[lag] / c[0]) * (float64(n) / float64(n-lag))
	return common.Clamp(raw, 0.0, 1.0)
}
