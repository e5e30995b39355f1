// Package detect defines the contract between the landmark detector (an
// external inference process) and the editing core, plus the per-object
// selection rules.
package detect

import (
	"context"
	"fmt"

	"github.com/kikiluvv/handcut/internal/track"
)

// Profile isolates the per-object-type rules: which of several
// detections in one frame to follow, and when a detection counts at all.
type Profile interface {
	Name() string
	// SelectionKey ranks boxes within a frame; the largest key wins.
	SelectionKey(box track.BoundingBox) float64
	// Valid reports whether a box is big enough to count as present.
	Valid(box track.BoundingBox, minAreaRatio float64) bool
}

// HandProfile follows the right-most hand. On a typical desk recording
// the dominant hand works on the right side of the frame.
type HandProfile struct{}

func (HandProfile) Name() string { return "hand" }

func (HandProfile) SelectionKey(box track.BoundingBox) float64 { return box.CenterX }

func (HandProfile) Valid(box track.BoundingBox, minAreaRatio float64) bool {
	return box.Area >= minAreaRatio
}

// HeadProfile follows the largest detected head.
type HeadProfile struct{}

func (HeadProfile) Name() string { return "head" }

func (HeadProfile) SelectionKey(box track.BoundingBox) float64 { return box.Area }

func (HeadProfile) Valid(box track.BoundingBox, minAreaRatio float64) bool {
	return box.Area >= minAreaRatio
}

// ProfileByName resolves a profile from its CLI/config name.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "hand", "":
		return HandProfile{}, nil
	case "head":
		return HeadProfile{}, nil
	default:
		return nil, fmt.Errorf("detect: unknown profile %q (want hand or head)", name)
	}
}

// Result is everything a detection pass produces: one observation set
// per sampled frame (contiguous, 0-based, possibly empty per frame) and
// the sampling rate actually achieved. Index i corresponds to time
// i/EffectiveFPS.
type Result struct {
	Observations [][]track.BoundingBox
	EffectiveFPS float64
}

// Source produces detections for a video. Implementations wrap the
// external inference collaborator; the core never decodes frames itself.
type Source interface {
	Detect(ctx context.Context, videoPath string) (*Result, error)
}
