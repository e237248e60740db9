package synth_test

import (
	"fmt"

	"github.com/cwbudde/algo-modal/dsp/excite"
	"github.com/cwbudde/algo-modal/synth"
)

func ExampleEngine() {
	eng, err := synth.New(synth.WithSeed(7))
	if err != nil {
		panic(err)
	}
	if err := eng.Prepare(48000); err != nil {
		panic(err)
	}

	eng.EnqueueTrigger(synth.TriggerEvent{
		Freq:       300,
		Amplitude:  1,
		Damping:    0.5,
		Brightness: 0.5,
		Metalness:  0.5,
		Waveform:   excite.Noise,
	})

	block := [][]float64{make([]float64, 512), make([]float64, 512)}
	eng.Render(block)

	fmt.Println("active voices:", eng.ActiveVoiceCount())
	fmt.Println("audible:", eng.OutputLevel() > 0)

	// Output:
	// active voices: 1
	// audible: true
}
