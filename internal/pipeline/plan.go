package pipeline

import "github.com/kikiluvv/handcut/internal/track"

// cropStep is one sampled frame's worth of cropped output: the source
// time range to cut and the rectangle to crop it to.
type cropStep struct {
	Start     float64
	End       float64
	Rect      track.Rect
	Corrected bool
}

// buildCropPlan turns the smoothed position series into concrete crop
// steps. Frames without a position are skipped entirely; their time
// range simply does not appear in the output. Steps that would fall
// past the end of the video, or collapse to zero duration, are dropped.
func buildCropPlan(positions []*track.Point, frameW, frameH int, duration, effFPS, zoomRatio, hAnchor, vAnchor float64) []cropStep {
	if effFPS <= 0 {
		return nil
	}

	cropW := int(float64(frameW) * zoomRatio)
	cropH := int(float64(frameH) * zoomRatio)

	var steps []cropStep
	for i, pos := range positions {
		if pos == nil {
			continue
		}

		start := float64(i) / effFPS
		end := float64(i+1) / effFPS
		if end > duration {
			end = duration
		}
		if end <= start {
			continue
		}

		cx := pos.X * float64(frameW)
		cy := pos.Y * float64(frameH)
		rect, corrected := track.PlaceCrop(cx, cy, cropW, cropH, frameW, frameH, hAnchor, vAnchor)

		steps = append(steps, cropStep{
			Start:     start,
			End:       end,
			Rect:      rect,
			Corrected: corrected,
		})
	}

	return steps
}
