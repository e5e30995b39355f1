// Package pipeline orchestrates the editing flows: probe the source,
// run detection, derive keep-segments or crop rectangles, and drive the
// ffmpeg backend to produce the output.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/handcut/internal/config"
	"github.com/kikiluvv/handcut/internal/detect"
	"github.com/kikiluvv/handcut/internal/ffmpeg"
	"github.com/kikiluvv/handcut/internal/segment"
	"github.com/kikiluvv/handcut/internal/track"
	"github.com/kikiluvv/handcut/pkg/util"
)

// Pipeline wires the detection source, the editing core and the ffmpeg
// backend together for one configuration.
type Pipeline struct {
	logger  zerolog.Logger
	cfg     *config.Config
	ffmpeg  *ffmpeg.Executor
	source  detect.Source
	profile detect.Profile
}

// New creates a pipeline. The config must already be validated.
func New(logger zerolog.Logger, cfg *config.Config, source detect.Source, profile detect.Profile) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("pipeline: detection source is required")
	}
	if profile == nil {
		profile = detect.HandProfile{}
	}

	exec, err := ffmpeg.New(logger, cfg.FFmpeg.Threads, cfg.FFmpeg.Preset, cfg.FFmpeg.CRF)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	return &Pipeline{
		logger:  logger.With().Str("component", "pipeline").Logger(),
		cfg:     cfg,
		ffmpeg:  exec,
		source:  source,
		profile: profile,
	}, nil
}

// Edit cuts the source down to the time ranges where the tracked object
// is present, concatenates them and applies the configured speed
// multiplier.
func (p *Pipeline) Edit(ctx context.Context, input, output string) (*Report, error) {
	if err := p.checkPaths(input, output); err != nil {
		return nil, err
	}

	info, err := p.ffmpeg.ProbeVideo(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	p.logger.Info().
		Dur("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Msg("video metadata extracted")

	result, err := p.source.Detect(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	effFPS := p.effectiveFPS(result, info.FPS)

	mask := track.BuildMask(result.Observations, p.validity())

	segs, err := segment.FromMask(mask, effFPS,
		p.cfg.Segments.MinKeepSec, p.cfg.Segments.PadSec, p.cfg.Segments.MergeGapSec)
	if err != nil {
		return nil, err
	}
	segs = segment.Clamp(segs, info.Duration.Seconds())

	report := &Report{Segments: segs, EffectiveFPS: effFPS}

	if len(segs) == 0 {
		p.logger.Warn().
			Str("profile", p.profile.Name()).
			Msg("nothing detected, no output written")
		return report, nil
	}

	p.logger.Info().
		Int("segments", len(segs)).
		Float64("kept_sec", report.KeptDuration()).
		Msg("keep segments resolved")

	tempDir, err := os.MkdirTemp("", "handcut-edit-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	clipPaths := make([]string, 0, len(segs))
	for _, s := range segs {
		clipPath := filepath.Join(tempDir, uuid.NewString()+filepath.Ext(output))
		err := p.ffmpeg.ExtractClip(ctx, input, ffmpeg.ClipOptions{
			Start:     secondsToDuration(s.Start),
			End:       secondsToDuration(s.End),
			Output:    clipPath,
			CopyCodec: p.cfg.Output.FastCut,
		})
		if err != nil {
			return nil, err
		}
		clipPaths = append(clipPaths, clipPath)
	}

	speed := p.cfg.Output.Speed
	concatOut := output
	if speed != 1.0 {
		concatOut = filepath.Join(tempDir, "concat"+filepath.Ext(output))
	}

	if err := p.ffmpeg.Concat(ctx, ffmpeg.ConcatOptions{
		Inputs: clipPaths,
		Output: concatOut,
	}); err != nil {
		return nil, err
	}

	if speed != 1.0 {
		if err := p.ffmpeg.ChangeSpeed(ctx, concatOut, output, speed, info.HasAudio, nil); err != nil {
			return nil, err
		}
	}

	report.Output = output
	p.logger.Info().Str("output", output).Msg("edit complete")
	return report, nil
}

// effectiveFPS prefers the rate the detection source reported; when it
// could not report one, the rate is reconstructed from the probed source
// fps and the configured sampling step. Segment time math requires a
// positive rate.
func (p *Pipeline) effectiveFPS(result *detect.Result, sourceFPS float64) float64 {
	if result.EffectiveFPS > 0 {
		return result.EffectiveFPS
	}
	_, effFPS := detect.Sampling(sourceFPS, p.cfg.Detection.FPSSample)
	return effFPS
}

func (p *Pipeline) validity() func(track.BoundingBox) bool {
	minArea := p.cfg.Detection.MinAreaRatio
	return func(box track.BoundingBox) bool {
		return p.profile.Valid(box, minArea)
	}
}

// checkPaths verifies the input exists and the output directory can be
// written before any expensive work starts.
func (p *Pipeline) checkPaths(input, output string) error {
	if !util.FileExists(input) {
		return fmt.Errorf("input video not found: %s", input)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := util.EnsureDir(dir); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	return nil
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
