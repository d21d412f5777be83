package tracker

import (
	"fmt"

	"github.com/RyanBlaney/sonido-pitch/algorithms/stats"
	"github.com/RyanBlaney/sonido-pitch/algorithms/tonal"
)

// Config holds every tunable of a tracking session. The numeric defaults
// are empirically tuned product parameters, not canonical constants;
// hosts are expected to adjust them per microphone and use case.
type Config struct {
	SampleRate       int `json:"sample_rate"`
	SampleWindowSize int `json:"sample_window_size"` // Frame length used for correlation

	// Plausible musical range; estimates outside it degrade to unvoiced
	MinFrequencyHz float64 `json:"min_frequency_hz"`
	MaxFrequencyHz float64 `json:"max_frequency_hz"`

	// Estimator thresholds
	ClarityThreshold    float64 `json:"clarity_threshold"`     // Minimum normalized correlation peak
	RMSSilenceThreshold float64 `json:"rms_silence_threshold"` // Minimum signal energy before estimating

	// Temporal smoothing
	HistorySize             int     `json:"history_size"`              // Smoothing window length (frames)
	GapThresholdMs          float64 `json:"gap_threshold_ms"`          // Silence duration that resets history
	HighConfidenceThreshold float64 `json:"high_confidence_threshold"` // Clarity above which smoothing is bypassed
	SmoothingFactor         float64 `json:"smoothing_factor"`          // Weight of the previous output in the blend

	// Octave-error correction
	MaxGradualDeltaHz float64 `json:"max_gradual_delta_hz"` // Per-frame change still considered a glide
	OctaveTolerance   float64 `json:"octave_tolerance"`     // Relative band around the harmonic ratios

	// Autocorrelation method for the underlying estimator
	CorrelationMethod stats.Method `json:"correlation_method"`
}

// DefaultConfig returns a session configuration tuned for vocal training
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:              sampleRate,
		SampleWindowSize:        2048,
		MinFrequencyHz:          50.0,
		MaxFrequencyHz:          2000.0,
		ClarityThreshold:        0.86,
		RMSSilenceThreshold:     0.01,
		HistorySize:             6,
		GapThresholdMs:          750.0,
		HighConfidenceThreshold: 0.9,
		SmoothingFactor:         0.7,
		MaxGradualDeltaHz:       200.0,
		OctaveTolerance:         0.025,
		CorrelationMethod:       stats.TimeDomain,
	}
}

// Validate reports the first configuration problem found
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.SampleWindowSize <= 0 {
		return fmt.Errorf("sample window size must be positive, got %d", c.SampleWindowSize)
	}
	if c.MinFrequencyHz <= 0 || c.MaxFrequencyHz <= c.MinFrequencyHz {
		return fmt.Errorf("invalid frequency range [%.1f, %.1f]", c.MinFrequencyHz, c.MaxFrequencyHz)
	}
	if c.ClarityThreshold < 0 || c.ClarityThreshold > 1 {
		return fmt.Errorf("clarity threshold must be in [0, 1], got %f", c.ClarityThreshold)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history size must be at least 1, got %d", c.HistorySize)
	}
	if c.GapThresholdMs <= 0 {
		return fmt.Errorf("gap threshold must be positive, got %f", c.GapThresholdMs)
	}
	if c.SmoothingFactor < 0 || c.SmoothingFactor >= 1 {
		return fmt.Errorf("smoothing factor must be in [0, 1), got %f", c.SmoothingFactor)
	}
	if c.OctaveTolerance <= 0 {
		return fmt.Errorf("octave tolerance must be positive, got %f", c.OctaveTolerance)
	}
	return nil
}

// estimatorParams maps the session configuration onto estimator
// parameters. The estimator's search range is the narrower vocal range;
// the outer musical range filter is applied by the tracker.
func (c Config) estimatorParams() tonal.Params {
	params := tonal.DefaultParams(c.SampleRate)
	params.WindowSize = c.SampleWindowSize
	params.ClarityThreshold = c.ClarityThreshold
	params.RMSSilenceThreshold = c.RMSSilenceThreshold
	params.Method = c.CorrelationMethod
	return params
}
