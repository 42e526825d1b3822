package audio

import (
	"github.com/mjibson/go-dsp/window"
)

// Declick returns rising and falling gain ramps of n frames, the two halves
// of a Hann window. Applied where a cue starts mid-clip or is stopped, they
// remove the click of a hard cut.
func Declick(n int) (rise, fall []float32) {
	if n <= 0 {
		return nil, nil
	}
	w := window.Hann(2*n + 1)
	rise = make([]float32, n)
	fall = make([]float32, n)
	for i := 0; i < n; i++ {
		rise[i] = float32(w[i])
		fall[i] = float32(w[n+1+i])
	}
	return rise, fall
}
