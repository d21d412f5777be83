package temporal

import (
	"math"
	"testing"
)

func TestFrameRMS(t *testing.T) {
	if got := FrameRMS([]float64{0.5, -0.5, 0.5, -0.5}); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("RMS mismatch: got %f want 0.5", got)
	}
	if got := FrameRMS(nil); got != 0 {
		t.Fatalf("empty frame RMS should be 0, got %f", got)
	}
}

func TestIsSilent(t *testing.T) {
	quiet := []float64{0.001, -0.002, 0.001}
	if !IsSilent(quiet, 0.01) {
		t.Fatalf("expected quiet frame to be silent")
	}

	loud := []float64{0.3, -0.3, 0.3}
	if IsSilent(loud, 0.01) {
		t.Fatalf("expected loud frame to be non-silent")
	}
}

func TestTrimLowAmplitude(t *testing.T) {
	frame := []float64{0.01, -0.05, 0.3, -0.25, 0.05, 0.01}

	got := TrimLowAmplitude(frame, 0.2)
	if len(got) != 2 || got[0] != 0.3 || got[1] != -0.25 {
		t.Fatalf("trim mismatch: got %v", got)
	}
}

func TestTrimLowAmplitudeAllBelow(t *testing.T) {
	frame := []float64{0.01, -0.02, 0.03}

	if got := TrimLowAmplitude(frame, 0.2); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestTrimLowAmplitudeNoTrim(t *testing.T) {
	frame := []float64{0.5, -0.6, 0.7}

	got := TrimLowAmplitude(frame, 0.2)
	if len(got) != len(frame) {
		t.Fatalf("expected full frame back, got %v", got)
	}
}

func TestComputeShortTimeEnergyConstantSignal(t *testing.T) {
	signal := make([]float64, 100)
	for i := range signal {
		signal[i] = 0.6
	}

	energies := NewEnergy(10, 5, 8000).ComputeShortTimeEnergy(signal)
	if len(energies) != 19 {
		t.Fatalf("frame count mismatch: got %d want 19", len(energies))
	}
	for i, energy := range energies {
		if math.Abs(energy-0.6) > 1e-12 {
			t.Fatalf("frame %d energy mismatch: got %f want 0.6", i, energy)
		}
	}
}

func TestComputeShortTimeEnergyShortSignal(t *testing.T) {
	if got := NewEnergy(10, 5, 8000).ComputeShortTimeEnergy(make([]float64, 5)); len(got) != 0 {
		t.Fatalf("expected no frames for short signal, got %d", len(got))
	}
}

func TestSilentRatio(t *testing.T) {
	// First half silent, second half loud
	signal := make([]float64, 200)
	for i := 100; i < 200; i++ {
		signal[i] = 0.5
	}

	ratio := NewEnergy(10, 10, 8000).SilentRatio(signal, 0.01)
	if math.Abs(ratio-0.5) > 1e-12 {
		t.Fatalf("silent ratio mismatch: got %f want 0.5", ratio)
	}

	if got := NewEnergy(10, 10, 8000).SilentRatio(nil, 0.01); got != 1.0 {
		t.Fatalf("empty signal should be fully silent, got %f", got)
	}
}
