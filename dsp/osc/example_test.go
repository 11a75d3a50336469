package osc_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/dsp/osc"
)

func ExampleOscillator_SetFrequency() {
	o := osc.New()
	o.Prepare(48000, 256)

	o.SetFrequency(1000)
	o.SetFrequency(30000) // above Nyquist, ignored

	fmt.Println(o.Frequency())

	// Output:
	// 1000
}
