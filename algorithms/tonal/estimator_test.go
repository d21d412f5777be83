package tonal

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-pitch/algorithms/stats"
)

func makeSine(freq float64, sampleRate, n int, amplitude float64) []float64 {
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return frame
}

func TestEstimateSineTones(t *testing.T) {
	const sampleRate = 44100

	e := NewEstimator(sampleRate)

	for _, freq := range []float64{100, 196, 440, 587.33, 800} {
		frame := makeSine(freq, sampleRate, 2048, 0.3)

		est := e.EstimateFrame(frame)
		if !est.Voiced {
			t.Fatalf("%.2f Hz sine: expected voiced estimate, got %+v", freq, est)
		}
		if relErr := math.Abs(est.Frequency-freq) / freq; relErr > 0.01 {
			t.Fatalf("%.2f Hz sine: frequency %f off by %.2f%%", freq, est.Frequency, relErr*100)
		}
		if est.Clarity < 0.95 {
			t.Fatalf("%.2f Hz sine: clarity %f below 0.95", freq, est.Clarity)
		}
		if est.RMS < 0.2 {
			t.Fatalf("%.2f Hz sine: RMS %f implausibly low", freq, est.RMS)
		}
	}
}

func TestEstimateZeroBuffer(t *testing.T) {
	e := NewEstimator(44100)

	est := e.EstimateFrame(make([]float64, 2048))
	if est.Voiced {
		t.Fatalf("all-zero buffer produced a pitch: %+v", est)
	}
	if est.Frequency != 0 || est.Clarity != 0 {
		t.Fatalf("all-zero buffer should report frequency 0 and clarity 0, got %+v", est)
	}
}

func TestEstimateEmptyBuffer(t *testing.T) {
	e := NewEstimator(44100)

	if est := e.EstimateFrame(nil); est.Voiced {
		t.Fatalf("empty buffer produced a pitch: %+v", est)
	}
}

func TestEstimateQuietFrame(t *testing.T) {
	e := NewEstimator(44100)

	est := e.EstimateFrame(makeSine(440, 44100, 2048, 0.005))
	if est.Voiced {
		t.Fatalf("sub-threshold frame produced a pitch: %+v", est)
	}
	if est.RMS <= 0 {
		t.Fatalf("quiet frame should still report its RMS, got %+v", est)
	}
}

func TestEstimateNaNBuffer(t *testing.T) {
	e := NewEstimator(44100)

	frame := makeSine(440, 44100, 2048, 0.3)
	frame[100] = math.NaN()

	est := e.EstimateFrame(frame)
	if est.Voiced {
		t.Fatalf("NaN-laden buffer produced a pitch: %+v", est)
	}
	if math.IsNaN(est.Frequency) || math.IsNaN(est.Clarity) {
		t.Fatalf("NaN leaked into the estimate: %+v", est)
	}
}

func TestEstimateTooFewLoudSamples(t *testing.T) {
	e := NewEstimator(44100)

	// A 50-sample burst keeps the frame above the silence gate but below
	// the minimum trimmed length
	frame := make([]float64, 2048)
	for i := 1000; i < 1050; i++ {
		frame[i] = 0.9
	}

	if est := e.EstimateFrame(frame); est.Voiced {
		t.Fatalf("burst frame produced a pitch: %+v", est)
	}
}

func TestEstimateBelowSearchRange(t *testing.T) {
	e := NewEstimator(44100) // MinFreq 80

	est := e.EstimateFrame(makeSine(60, 44100, 2048, 0.3))
	if est.Voiced {
		t.Fatalf("60 Hz tone below the search range produced a pitch: %+v", est)
	}
}

func TestEstimateNoisyFrameReportsClarity(t *testing.T) {
	e := NewEstimator(44100)

	// Deterministic LCG noise: loud enough to pass the silence gate but
	// aperiodic, so the clarity bar must reject it
	frame := make([]float64, 2048)
	state := uint64(12345)
	for i := range frame {
		state = state*6364136223846793005 + 1442695040888963407
		frame[i] = 0.6*float64(state>>11)/float64(1<<53) - 0.3
	}

	est := e.EstimateFrame(frame)
	if est.Voiced {
		t.Fatalf("noise frame produced a pitch: %+v", est)
	}
	if est.Clarity <= 0 || est.Clarity >= 1 {
		t.Fatalf("rejected noise frame should surface its clarity for diagnostics, got %+v", est)
	}
}

func TestEstimateFFTMethodMatchesDirect(t *testing.T) {
	const sampleRate = 44100

	direct := NewEstimator(sampleRate)

	params := DefaultParams(sampleRate)
	params.Method = stats.FrequencyDomain
	viaFFT := NewEstimatorWithParams(params)

	frame := makeSine(440, sampleRate, 2048, 0.3)

	a := direct.EstimateFrame(frame)
	b := viaFFT.EstimateFrame(frame)

	if !a.Voiced || !b.Voiced {
		t.Fatalf("both methods should detect the tone: direct %+v, fft %+v", a, b)
	}
	if math.Abs(a.Frequency-b.Frequency) > 0.1 {
		t.Fatalf("methods disagree: direct %f, fft %f", a.Frequency, b.Frequency)
	}
}

func TestEstimateLowFrequencyRelaxation(t *testing.T) {
	// A 2048-sample window holds under five cycles of 100 Hz, so this
	// exercises the relaxed clarity path
	e := NewEstimator(44100)

	est := e.EstimateFrame(makeSine(100, 44100, 2048, 0.3))
	if !est.Voiced {
		t.Fatalf("100 Hz sine should be detected, got %+v", est)
	}
	if relErr := math.Abs(est.Frequency-100) / 100; relErr > 0.01 {
		t.Fatalf("100 Hz sine estimated at %f", est.Frequency)
	}
}
