package detect

import "math"

// Sampling computes the frame step and the effective sampling rate for
// analyzing a source at fpsSample. The step is the integer subsampling
// interval, so the fps actually achieved rarely equals the requested
// one: 30fps sampled at 14 steps every 2 frames and lands on 15fps.
// When the source fps is unknown or zero the requested rate is assumed.
func Sampling(origFPS float64, fpsSample int) (step int, effectiveFPS float64) {
	if origFPS <= 0 {
		return 1, float64(fpsSample)
	}

	step = int(math.Round(origFPS / float64(fpsSample)))
	if step < 1 {
		step = 1
	}
	return step, origFPS / float64(step)
}
