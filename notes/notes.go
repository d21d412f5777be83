// Package notes maps frequencies onto the nearest named pitch of the
// twelve-tone equal-tempered scale.
package notes

import (
	"math"
)

// Note is a named pitch from the fixed lookup table together with the
// deviation of the queried frequency from it.
type Note struct {
	Name        string  `json:"name"`         // e.g. "A4"
	PitchClass  string  `json:"pitch_class"`  // e.g. "A"
	Octave      int     `json:"octave"`       // e.g. 4 for A4
	FrequencyHz float64 `json:"frequency_hz"` // Reference frequency of the note
	Cents       int     `json:"cents"`        // Deviation of the query from the note
}

// A4 is the tuning reference in Hz
const A4 = 440.0

var pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// table spans C0 through B8, which comfortably covers the trackable
// vocal range on both sides
var table = buildTable()

func buildTable() []Note {
	const (
		firstMIDI = 12  // C0
		lastMIDI  = 119 // B8
		a4MIDI    = 69
	)

	notes := make([]Note, 0, lastMIDI-firstMIDI+1)
	for midi := firstMIDI; midi <= lastMIDI; midi++ {
		octave := midi/12 - 1
		class := pitchClassNames[midi%12]
		notes = append(notes, Note{
			Name:        class + itoa(octave),
			PitchClass:  class,
			Octave:      octave,
			FrequencyHz: A4 * math.Pow(2, float64(midi-a4MIDI)/12.0),
		})
	}
	return notes
}

// itoa avoids pulling strconv in for single-digit octaves
func itoa(n int) string {
	if n < 0 || n > 9 {
		return "?"
	}
	return string(rune('0' + n))
}

// ClosestNote returns the table entry nearest to the frequency by
// absolute Hz distance, with the cents deviation of the query from it:
// cents = round(1200*log2(f/reference)). Returns false for a
// non-positive or non-finite frequency.
func ClosestNote(frequencyHz float64) (Note, bool) {
	if frequencyHz <= 0 || math.IsNaN(frequencyHz) || math.IsInf(frequencyHz, 0) {
		return Note{}, false
	}

	best := table[0]
	bestDist := math.Abs(frequencyHz - best.FrequencyHz)
	for _, note := range table[1:] {
		if dist := math.Abs(frequencyHz - note.FrequencyHz); dist < bestDist {
			best = note
			bestDist = dist
		}
	}

	best.Cents = int(math.Round(1200 * math.Log2(frequencyHz/best.FrequencyHz)))
	return best, true
}
