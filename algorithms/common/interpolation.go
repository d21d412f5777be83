package common

// ParabolicPeak refines an integer peak index to sub-sample precision by
// fitting a parabola through the three values around the peak.
//
// Reference: Smith, J.O. "Spectral Audio Signal Processing", peak
// interpolation section.
//
// Returns the refined fractional index. Peaks at the edges of the data
// (or a degenerate flat fit) are returned unrefined.
func ParabolicPeak(data []float64, peakIdx int) float64 {
	if peakIdx <= 0 || peakIdx >= len(data)-1 {
		return float64(peakIdx)
	}

	y1 := data[peakIdx-1]
	y2 := data[peakIdx]
	y3 := data[peakIdx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2

	if a == 0 {
		return float64(peakIdx)
	}

	return float64(peakIdx) - b/(2*a)
}

// LinearInterpolate performs linear interpolation at a fractional index,
// clamping to the data bounds.
func LinearInterpolate(data []float64, index float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	if index <= 0 {
		return data[0]
	}
	if index >= float64(len(data)-1) {
		return data[len(data)-1]
	}

	i := int(index)
	frac := index - float64(i)

	return data[i] + frac*(data[i+1]-data[i])
}
