package pipeline

import "github.com/kikiluvv/handcut/internal/segment"

// Report summarizes what a pipeline run decided and produced. A run
// that detected nothing is a successful run with an empty report, not
// an error.
type Report struct {
	// Segments kept from the source, clamped to its duration.
	Segments []segment.Segment
	// EffectiveFPS is the sampling time base the detections used.
	EffectiveFPS float64
	// ZoomRatio is the resolved crop scale (crop runs only).
	ZoomRatio float64
	// FramesKept counts sampled frames that produced a crop rectangle
	// (crop runs only).
	FramesKept int
	// CorrectedFrames counts crops that had to snap to a frame edge.
	CorrectedFrames int
	// Output is the written file, empty when nothing was produced.
	Output string
}

// KeptDuration returns the total seconds of source video kept.
func (r *Report) KeptDuration() float64 {
	var total float64
	for _, s := range r.Segments {
		total += s.Duration()
	}
	return total
}
