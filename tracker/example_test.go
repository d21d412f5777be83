package tracker_test

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-pitch/notes"
	"github.com/RyanBlaney/sonido-pitch/tracker"
)

func ExampleTracker_ProcessFrame() {
	tr, err := tracker.NewTracker(tracker.DefaultConfig(44100))
	if err != nil {
		panic(err)
	}

	// One frame of a clean 440 Hz tone, as a microphone callback would
	// deliver it
	frame := make([]float64, 2048)
	for i := range frame {
		frame[i] = 0.3 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}

	out := tr.ProcessFrame(frame)
	note, _ := notes.ClosestNote(out.FrequencyHz)

	fmt.Printf("%.0f Hz -> %s\n", out.FrequencyHz, note.Name)
	// Output: 440 Hz -> A4
}
