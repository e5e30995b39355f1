package track

import "gonum.org/v1/gonum/stat"

// SmoothPositions applies a moving average over a symmetric window of
// windowSize frames, clipped to the sequence bounds. Frames without a
// detection stay nil and never contribute to a neighbor's average; a
// detected frame whose window holds no valid neighbor keeps its original
// value. windowSize below 1 is treated as 1.
func SmoothPositions(positions []*Point, windowSize int) []*Point {
	if windowSize < 1 {
		windowSize = 1
	}

	smoothed := make([]*Point, len(positions))
	half := windowSize / 2

	for i, pos := range positions {
		if pos == nil {
			continue
		}

		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(positions) {
			hi = len(positions)
		}

		var xs, ys []float64
		for j := lo; j < hi; j++ {
			if p := positions[j]; p != nil {
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
		}

		if len(xs) == 0 {
			p := *pos
			smoothed[i] = &p
			continue
		}

		smoothed[i] = &Point{
			X: stat.Mean(xs, nil),
			Y: stat.Mean(ys, nil),
		}
	}

	return smoothed
}
