package track

import (
	"math"
	"sort"
)

// Zoom ratio limits: 0.2 is a 5x zoom, 0.9 roughly 1.1x. Anything
// outside this range produces degenerate full-frame or pathologically
// tight crops.
const (
	MinZoomRatio = 0.2
	MaxZoomRatio = 0.9

	// FallbackZoomRatio is returned when auto-zoom has no observed
	// sizes to work with.
	FallbackZoomRatio = 0.5
)

// ZoomConfig selects between a fixed crop ratio and one derived from the
// observed object sizes.
type ZoomConfig struct {
	Auto bool
	// TargetRatio is the fraction of the cropped frame's area the
	// object should occupy once the crop is applied.
	TargetRatio float64
	// ManualRatio is used verbatim when Auto is false.
	ManualRatio float64
}

// ResolveZoom picks the crop scale factor for a whole run. The ratio is
// intentionally a single scalar per clip rather than per-frame; varying
// zoom over time produces visible jitter.
func ResolveZoom(sizes []*Point, cfg ZoomConfig) float64 {
	if !cfg.Auto {
		return cfg.ManualRatio
	}
	return autoZoomRatio(sizes, cfg.TargetRatio)
}

// autoZoomRatio derives the crop ratio from the median observed object
// area. The median (not the mean) keeps partial or noisy detections from
// skewing the result.
func autoZoomRatio(sizes []*Point, targetRatio float64) float64 {
	var areas []float64
	for _, size := range sizes {
		if size != nil {
			areas = append(areas, size.X*size.Y)
		}
	}

	if len(areas) == 0 {
		return FallbackZoomRatio
	}

	// Upper-middle element, matching the established selection policy
	// rather than an interpolated quantile.
	sort.Float64s(areas)
	medianArea := areas[len(areas)/2]

	// medianArea / ratio^2 = targetRatio, solved for ratio.
	ratio := math.Sqrt(medianArea / targetRatio)

	if ratio < MinZoomRatio {
		ratio = MinZoomRatio
	} else if ratio > MaxZoomRatio {
		ratio = MaxZoomRatio
	}
	return ratio
}
