package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-modal/dsp/filter/design"
)

func ExampleResonant() {
	c := design.Resonant(440, 25, 0.8, 48000)
	fmt.Printf("stable=%v peak=%.1f\n", c.IsStable(), c.MagnitudeSquared(440, 48000))

	// Output:
	// stable=true peak=400.0
}
