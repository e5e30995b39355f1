package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

func TestSmoothPreservesAbsence(t *testing.T) {
	positions := []*Point{pt(0.1, 0.1), nil, pt(0.3, 0.3), nil, nil}

	smoothed := SmoothPositions(positions, 3)

	require.Len(t, smoothed, len(positions))
	assert.Nil(t, smoothed[1])
	assert.Nil(t, smoothed[3])
	assert.Nil(t, smoothed[4])
	assert.NotNil(t, smoothed[0])
	assert.NotNil(t, smoothed[2])
}

func TestSmoothIgnoresNilNeighbors(t *testing.T) {
	// Window of 3 around index 1: the nil at index 0 must not drag the
	// average toward zero.
	positions := []*Point{nil, pt(0.4, 0.6), pt(0.6, 0.8)}

	smoothed := SmoothPositions(positions, 3)

	require.NotNil(t, smoothed[1])
	assert.InDelta(t, 0.5, smoothed[1].X, 1e-9)
	assert.InDelta(t, 0.7, smoothed[1].Y, 1e-9)
}

func TestSmoothIsLocalMean(t *testing.T) {
	positions := []*Point{pt(0, 0), pt(4, 1), pt(2, 2)}

	smoothed := SmoothPositions(positions, 3)

	require.NotNil(t, smoothed[1])
	assert.InDelta(t, 2.0, smoothed[1].X, 1e-9)
	assert.InDelta(t, 1.0, smoothed[1].Y, 1e-9)

	// Edges see a clipped window.
	assert.InDelta(t, 2.0, smoothed[0].X, 1e-9)
	assert.InDelta(t, 3.0, smoothed[2].X, 1e-9)
}

func TestSmoothWindowOneIsIdentity(t *testing.T) {
	positions := []*Point{pt(0.1, 0.9), nil, pt(0.5, 0.5)}

	smoothed := SmoothPositions(positions, 1)

	require.NotNil(t, smoothed[0])
	assert.Equal(t, *positions[0], *smoothed[0])
	assert.Nil(t, smoothed[1])
	assert.Equal(t, *positions[2], *smoothed[2])
}

func TestSmoothClampsWindowSize(t *testing.T) {
	positions := []*Point{pt(1, 1), pt(3, 3)}

	smoothed := SmoothPositions(positions, 0)

	require.NotNil(t, smoothed[0])
	assert.Equal(t, 1.0, smoothed[0].X)
	assert.Equal(t, 3.0, smoothed[1].X)
}

func TestSmoothDoesNotMutateInput(t *testing.T) {
	positions := []*Point{pt(0, 0), pt(10, 10), pt(0, 0)}

	_ = SmoothPositions(positions, 3)

	assert.Equal(t, 10.0, positions[1].X)
}
