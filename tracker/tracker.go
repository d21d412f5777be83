// Package tracker turns noisy single-frame pitch estimates into a stable
// frequency stream: it rejects implausible estimates, folds back octave
// misdetections, detects silence gaps, and smooths the output against a
// bounded history. One Tracker owns one listening session.
package tracker

import (
	"time"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
	"github.com/RyanBlaney/sonido-pitch/algorithms/tonal"
	"github.com/RyanBlaney/sonido-pitch/logging"
)

// TrackedPitch is the per-frame output of a tracking session. FrequencyHz
// is 0 on silent or rejected frames; silence is reported as silence, never
// papered over with a stale value.
type TrackedPitch struct {
	FrequencyHz float64 `json:"frequency_hz"`
	Clarity     float64 `json:"clarity"`
	VolumeRMS   float64 `json:"volume_rms"`
	IsAfterGap  bool    `json:"is_after_gap"`
}

// Sink receives one TrackedPitch per processed frame
type Sink func(TrackedPitch)

// State describes what a session is currently doing
type State int

const (
	// Idle means no frame has been processed since creation or Reset
	Idle State = iota

	// Tracking means the last processed frame carried a valid pitch
	Tracking

	// Silent means frames are arriving but no pitch is being detected
	Silent
)

type historyEntry struct {
	frequency float64
	clarity   float64
}

// Tracker maintains the per-session smoothing state. It is synchronous
// and single-threaded: ProcessFrame computes everything in the calling
// goroutine and never blocks. A Tracker must not be shared across
// sessions; create one per listening session and Reset it on stop.
type Tracker struct {
	cfg       Config
	estimator *tonal.Estimator

	history       []historyEntry
	output        float64
	lastConfident float64
	lastDetection time.Time
	state         State

	sink Sink
	now  func() time.Time
	log  logging.Logger
}

// NewTracker creates a tracking session from the given configuration
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Tracker{
		cfg:       cfg,
		estimator: tonal.NewEstimatorWithParams(cfg.estimatorParams()),
		history:   make([]historyEntry, 0, cfg.HistorySize),
		now:       time.Now,
		log:       logging.GetGlobalLogger().WithFields(logging.Fields{"component": "tracker"}),
	}, nil
}

// SetSink installs a callback invoked once per processed frame. Passing
// nil removes the callback.
func (t *Tracker) SetSink(sink Sink) {
	t.sink = sink
}

// State returns the current session state
func (t *Tracker) State() State {
	return t.state
}

// LastConfidentFrequency returns the most recent frequency that passed
// the high-confidence bar, or 0 if none has yet.
func (t *Tracker) LastConfidentFrequency() float64 {
	return t.lastConfident
}

// Reset returns the session to idle. Hosts call it on stop so a restarted
// session never smooths against another take's history.
func (t *Tracker) Reset() {
	t.history = t.history[:0]
	t.output = 0
	t.lastConfident = 0
	t.lastDetection = time.Time{}
	t.state = Idle
	t.log.Debug("session reset")
}

// ProcessFrame runs the full pipeline on one audio frame and returns the
// tracked pitch for it. It never returns an error: every failure mode
// inside the pipeline degrades to an unvoiced frame, because the caller
// is a real-time audio cadence that must never stall.
func (t *Tracker) ProcessFrame(frame []float64) TrackedPitch {
	return t.ProcessEstimate(t.estimator.EstimateFrame(frame))
}

// ProcessEstimate applies filtering, octave correction, gap handling and
// smoothing to a single-frame estimate. Exposed for hosts that run their
// own estimator but want the tracking behavior.
func (t *Tracker) ProcessEstimate(est tonal.Estimate) TrackedPitch {
	if est.Voiced && !t.inRange(est.Frequency) {
		t.log.Debug("estimate outside musical range", logging.Fields{
			"frequency": est.Frequency,
		})
		est = tonal.Estimate{Clarity: est.Clarity, RMS: est.RMS}
	}

	if !est.Voiced {
		// History is left untouched so tracking can resume within the
		// gap window; the frame itself reports silence.
		t.state = Silent
		return t.emit(TrackedPitch{Clarity: est.Clarity, VolumeRMS: est.RMS})
	}

	now := t.now()
	afterGap := t.gapElapsed(now)
	if afterGap {
		t.history = t.history[:0]
		t.log.Debug("silence gap boundary, history cleared", logging.Fields{
			"frequency": est.Frequency,
		})
	}

	frequency := t.correctOctave(est.Frequency)

	t.push(historyEntry{frequency: frequency, clarity: est.Clarity})
	t.output = t.smooth(frequency, est.Clarity, afterGap)

	t.lastDetection = now
	if est.Clarity >= t.cfg.HighConfidenceThreshold {
		t.lastConfident = frequency
	}
	t.state = Tracking

	return t.emit(TrackedPitch{
		FrequencyHz: t.output,
		Clarity:     est.Clarity,
		VolumeRMS:   est.RMS,
		IsAfterGap:  afterGap,
	})
}

// inRange is the confidence and range filter: a pure predicate against
// the configured musical range, suppressing subsonic and ultrasonic
// artifacts the estimator's own search window can let through.
func (t *Tracker) inRange(frequency float64) bool {
	return frequency >= t.cfg.MinFrequencyHz && frequency <= t.cfg.MaxFrequencyHz
}

// gapElapsed reports whether too much wall-clock time passed since the
// last valid detection. Wall clock rather than frame counts, because the
// caller's cadence may be irregular or drop frames entirely.
func (t *Tracker) gapElapsed(now time.Time) bool {
	if t.lastDetection.IsZero() {
		return false
	}
	return now.Sub(t.lastDetection) > time.Duration(t.cfg.GapThresholdMs)*time.Millisecond
}

func (t *Tracker) push(entry historyEntry) {
	if len(t.history) >= t.cfg.HistorySize {
		copy(t.history, t.history[1:])
		t.history = t.history[:len(t.history)-1]
	}
	t.history = append(t.history, entry)
}

// smooth produces the output frequency for a voiced frame. High-clarity
// estimates snap directly so a clean signal stays responsive; lower
// clarity blends a recency- and clarity-weighted history target into the
// previous output to damp jitter.
func (t *Tracker) smooth(frequency, clarity float64, afterGap bool) float64 {
	if afterGap || clarity >= t.cfg.HighConfidenceThreshold {
		return frequency
	}
	if t.output <= 0 {
		return t.target()
	}
	return t.cfg.SmoothingFactor*t.output + (1-t.cfg.SmoothingFactor)*t.target()
}

// target is the confidence-weighted average of the history: weight grows
// linearly with recency and quadratically with clarity.
func (t *Tracker) target() float64 {
	frequencies := make([]float64, len(t.history))
	weights := make([]float64, len(t.history))
	for i, entry := range t.history {
		frequencies[i] = entry.frequency
		weights[i] = float64(i+1) * entry.clarity * entry.clarity
	}

	if mean := common.WeightedMean(frequencies, weights); mean > 0 {
		return mean
	}
	return t.history[len(t.history)-1].frequency
}

func (t *Tracker) emit(result TrackedPitch) TrackedPitch {
	if t.sink != nil {
		t.sink(result)
	}
	return result
}
