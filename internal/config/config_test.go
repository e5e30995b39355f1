package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handcut.yaml")
	yaml := `
detection:
  fps_sample: 30
  min_area_ratio: 0.01
segments:
  pad_sec: 0.5
crop:
  auto_zoom: false
output:
  speed: 1.0
  fast_cut: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Detection.FPSSample)
	assert.Equal(t, 0.01, cfg.Detection.MinAreaRatio)
	assert.Equal(t, 0.5, cfg.Segments.PadSec)
	assert.False(t, cfg.Crop.AutoZoom)
	assert.Equal(t, 1.0, cfg.Output.Speed)
	assert.True(t, cfg.Output.FastCut)

	// Untouched settings keep their defaults.
	assert.Equal(t, 0.5, cfg.Detection.MinConfidence)
	assert.Equal(t, 1.0, cfg.Segments.MinKeepSec)
	assert.Equal(t, 0.8, cfg.Crop.HorizontalAnchor)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handcut.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detection:\n  fps_sample: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps_sample", func(c *Config) { c.Detection.FPSSample = 0 }},
		{"confidence above one", func(c *Config) { c.Detection.MinConfidence = 1.5 }},
		{"negative area ratio", func(c *Config) { c.Detection.MinAreaRatio = -0.1 }},
		{"negative pad", func(c *Config) { c.Segments.PadSec = -1 }},
		{"anchor out of range", func(c *Config) { c.Crop.HorizontalAnchor = 1.2 }},
		{"zero smooth window", func(c *Config) { c.Crop.SmoothWindow = 0 }},
		{"zero target ratio", func(c *Config) { c.Crop.TargetObjectRatio = 0 }},
		{"manual zoom above one", func(c *Config) { c.Crop.ManualZoomRatio = 1.5 }},
		{"zero speed", func(c *Config) { c.Output.Speed = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "handcut.yaml")

	want := Default()
	want.Detection.DetectorCmd = "hand-landmarker"
	want.Crop.SmoothWindow = 5
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
