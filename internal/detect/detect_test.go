package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kikiluvv/handcut/internal/track"
)

func TestProfileByName(t *testing.T) {
	hand, err := ProfileByName("hand")
	require.NoError(t, err)
	assert.Equal(t, "hand", hand.Name())

	head, err := ProfileByName("head")
	require.NoError(t, err)
	assert.Equal(t, "head", head.Name())

	// Empty defaults to hand.
	def, err := ProfileByName("")
	require.NoError(t, err)
	assert.Equal(t, "hand", def.Name())

	_, err = ProfileByName("foot")
	assert.Error(t, err)
}

func TestHandProfileSelectsRightMost(t *testing.T) {
	left, _ := track.BoxFromPoints([]track.Point{{X: 0.1, Y: 0.1}, {X: 0.3, Y: 0.3}})
	right, _ := track.BoxFromPoints([]track.Point{{X: 0.6, Y: 0.1}, {X: 0.8, Y: 0.3}})

	p := HandProfile{}
	assert.Greater(t, p.SelectionKey(right), p.SelectionKey(left))
}

func TestHeadProfileSelectsLargest(t *testing.T) {
	small, _ := track.BoxFromPoints([]track.Point{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}})
	large, _ := track.BoxFromPoints([]track.Point{{X: 0.5, Y: 0.5}, {X: 0.9, Y: 0.9}})

	p := HeadProfile{}
	assert.Greater(t, p.SelectionKey(large), p.SelectionKey(small))
}

func TestProfileValidity(t *testing.T) {
	box, _ := track.BoxFromPoints([]track.Point{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}})

	assert.True(t, HandProfile{}.Valid(box, 0.003))
	assert.False(t, HandProfile{}.Valid(box, 0.5))
}
