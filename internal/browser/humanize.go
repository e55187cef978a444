package browser

import (
	"github.com/aquilax/go-perlin"
)

// scrollPlan produces the intermediate offsets for a smooth scroll from one
// vertical position to another. The path is eased (fast in the middle, slow
// at the ends) with low-frequency Perlin jitter layered on top so no two
// sessions produce the same trace. The final offset always lands exactly on
// the target.
func scrollPlan(noise *perlin.Perlin, from, to float64, steps int) []float64 {
	if steps < 2 {
		return []float64{to}
	}

	const jitterAmplitude = 12.0

	offsets := make([]float64, steps)
	for i := 0; i < steps; i++ {
		t := float64(i+1) / float64(steps)
		// Smoothstep easing.
		eased := t * t * (3 - 2*t)
		pos := from + (to-from)*eased

		if i < steps-1 {
			pos += noise.Noise1D(t*2.0) * jitterAmplitude
			// Scroll offsets below the document origin are meaningless.
			if pos < 0 {
				pos = 0
			}
		} else {
			pos = to
		}
		offsets[i] = pos
	}
	return offsets
}
