package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampling(t *testing.T) {
	cases := []struct {
		name      string
		origFPS   float64
		fpsSample int
		wantStep  int
		wantFPS   float64
	}{
		{"even division", 30, 15, 2, 15},
		{"ntsc", 29.97, 15, 2, 14.985},
		{"rounds up", 24, 15, 2, 12},
		{"source slower than sample", 10, 15, 1, 10},
		{"step never below one", 30, 120, 1, 30},
		{"unknown source fps", 0, 15, 1, 15},
		{"negative source fps", -1, 15, 1, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			step, fps := Sampling(tc.origFPS, tc.fpsSample)
			assert.Equal(t, tc.wantStep, step)
			assert.InDelta(t, tc.wantFPS, fps, 1e-9)
		})
	}
}
