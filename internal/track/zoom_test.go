package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveZoomManual(t *testing.T) {
	ratio := ResolveZoom([]*Point{pt(0.5, 0.5)}, ZoomConfig{
		Auto:        false,
		ManualRatio: 0.3,
	})
	assert.Equal(t, 0.3, ratio)
}

func TestResolveZoomFallbackOnNoSizes(t *testing.T) {
	cfg := ZoomConfig{Auto: true, TargetRatio: 0.15}

	assert.Equal(t, FallbackZoomRatio, ResolveZoom(nil, cfg))
	assert.Equal(t, FallbackZoomRatio, ResolveZoom([]*Point{nil, nil}, cfg))
}

func TestResolveZoomUsesMedianArea(t *testing.T) {
	// Areas sorted: 0.01, 0.04, 0.09, 0.16 -> upper-middle is 0.09.
	sizes := []*Point{
		pt(0.4, 0.4), // 0.16
		pt(0.1, 0.1), // 0.01
		pt(0.3, 0.3), // 0.09
		pt(0.2, 0.2), // 0.04
	}

	ratio := ResolveZoom(sizes, ZoomConfig{Auto: true, TargetRatio: 0.15})
	assert.InDelta(t, math.Sqrt(0.09/0.15), ratio, 1e-9)
}

func TestResolveZoomIgnoresOutliers(t *testing.T) {
	// One enormous spurious detection must not dominate: the median
	// stays in the cluster of normal sizes.
	sizes := []*Point{
		pt(0.1, 0.1), pt(0.1, 0.1), pt(0.1, 0.1), pt(0.1, 0.1),
		pt(0.95, 0.95),
	}

	ratio := ResolveZoom(sizes, ZoomConfig{Auto: true, TargetRatio: 0.15})
	assert.InDelta(t, math.Sqrt(0.01/0.15), ratio, 1e-9)
}

func TestResolveZoomBounds(t *testing.T) {
	cases := []struct {
		name  string
		sizes []*Point
	}{
		{"huge object clamps high", []*Point{pt(0.9, 0.9)}},
		{"tiny object clamps low", []*Point{pt(0.001, 0.001)}},
		{"mixed", []*Point{pt(0.3, 0.2), nil, pt(0.5, 0.4)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ratio := ResolveZoom(tc.sizes, ZoomConfig{Auto: true, TargetRatio: 0.15})
			require.GreaterOrEqual(t, ratio, MinZoomRatio)
			require.LessOrEqual(t, ratio, MaxZoomRatio)
		})
	}
}
