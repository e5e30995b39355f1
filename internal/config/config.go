package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Segments  SegmentConfig   `yaml:"segments"`
	Crop      CropConfig      `yaml:"crop"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Output    OutputConfig    `yaml:"output"`
}

// DetectionConfig controls the landmark detector sidecar and which
// detections count as "present".
type DetectionConfig struct {
	FPSSample     int     `yaml:"fps_sample"`
	MinConfidence float64 `yaml:"min_confidence"`
	MinAreaRatio  float64 `yaml:"min_area_ratio"`
	// DetectorCmd is the external landmark detector executable. When
	// empty, detections must come from a saved stream file.
	DetectorCmd  string   `yaml:"detector_cmd"`
	DetectorArgs []string `yaml:"detector_args"`
}

// SegmentConfig shapes the kept time ranges.
type SegmentConfig struct {
	MinKeepSec  float64 `yaml:"min_keep_sec"`
	MergeGapSec float64 `yaml:"merge_gap_sec"`
	PadSec      float64 `yaml:"pad_sec"`
}

// CropConfig controls the follow-crop placement and zoom.
type CropConfig struct {
	HorizontalAnchor  float64 `yaml:"horizontal_anchor"`
	VerticalAnchor    float64 `yaml:"vertical_anchor"`
	SmoothWindow      int     `yaml:"smooth_window"`
	AutoZoom          bool    `yaml:"auto_zoom"`
	TargetObjectRatio float64 `yaml:"target_object_ratio"`
	ManualZoomRatio   float64 `yaml:"manual_zoom_ratio"`
}

// FFmpegConfig configures the encoding backend.
type FFmpegConfig struct {
	Threads int    `yaml:"threads"`
	Preset  string `yaml:"preset"`
	CRF     int    `yaml:"crf"`
}

// OutputConfig controls the final render.
type OutputConfig struct {
	// Speed is the uniform playback multiplier applied to the cut.
	Speed float64 `yaml:"speed"`
	// FastCut extracts segments with codec copy instead of re-encoding.
	// Much faster, but cuts land on keyframes, so segment boundaries
	// shift by up to a GOP.
	FastCut bool `yaml:"fast_cut"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects numeric settings the pipeline cannot work with.
func (c *Config) Validate() error {
	d := c.Detection
	if d.FPSSample <= 0 {
		return fmt.Errorf("detection.fps_sample must be positive, got %d", d.FPSSample)
	}
	if d.MinConfidence < 0 || d.MinConfidence > 1 {
		return fmt.Errorf("detection.min_confidence must be in [0,1], got %g", d.MinConfidence)
	}
	if d.MinAreaRatio < 0 {
		return fmt.Errorf("detection.min_area_ratio must be >= 0, got %g", d.MinAreaRatio)
	}

	s := c.Segments
	if s.MinKeepSec < 0 || s.MergeGapSec < 0 || s.PadSec < 0 {
		return fmt.Errorf("segment durations must be >= 0")
	}

	cr := c.Crop
	if cr.HorizontalAnchor < 0 || cr.HorizontalAnchor > 1 {
		return fmt.Errorf("crop.horizontal_anchor must be in [0,1], got %g", cr.HorizontalAnchor)
	}
	if cr.VerticalAnchor < 0 || cr.VerticalAnchor > 1 {
		return fmt.Errorf("crop.vertical_anchor must be in [0,1], got %g", cr.VerticalAnchor)
	}
	if cr.SmoothWindow < 1 {
		return fmt.Errorf("crop.smooth_window must be >= 1, got %d", cr.SmoothWindow)
	}
	if cr.TargetObjectRatio <= 0 || cr.TargetObjectRatio > 1 {
		return fmt.Errorf("crop.target_object_ratio must be in (0,1], got %g", cr.TargetObjectRatio)
	}
	if cr.ManualZoomRatio <= 0 || cr.ManualZoomRatio > 1 {
		return fmt.Errorf("crop.manual_zoom_ratio must be in (0,1], got %g", cr.ManualZoomRatio)
	}

	if c.Output.Speed <= 0 {
		return fmt.Errorf("output.speed must be positive, got %g", c.Output.Speed)
	}

	return nil
}

func defaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			FPSSample:     15,
			MinConfidence: 0.5,
			MinAreaRatio:  0.003,
		},
		Segments: SegmentConfig{
			MinKeepSec:  1.0,
			MergeGapSec: 0.25,
			PadSec:      0.8,
		},
		Crop: CropConfig{
			HorizontalAnchor:  0.8,
			VerticalAnchor:    0.5,
			SmoothWindow:      1,
			AutoZoom:          true,
			TargetObjectRatio: 0.15,
			ManualZoomRatio:   0.3,
		},
		FFmpeg: FFmpegConfig{
			Threads: 0,
			Preset:  "medium",
			CRF:     23,
		},
		Output: OutputConfig{
			Speed: 3.0,
		},
	}
}

// Default returns a fresh config with all defaults applied.
func Default() *Config {
	return defaultConfig()
}

func findConfigFile() string {
	candidates := []string{
		"./handcut.yaml",
		"./handcut.yml",
		filepath.Join(os.Getenv("HOME"), ".handcut", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
