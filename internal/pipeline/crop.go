package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kikiluvv/handcut/internal/ffmpeg"
	"github.com/kikiluvv/handcut/internal/track"
)

// Crop renders a version of the source that follows the tracked object
// with a zoomed crop window. Each sampled frame with a detection becomes
// a short cropped sub-clip; the sub-clips are concatenated in order.
func (p *Pipeline) Crop(ctx context.Context, input, output string) (*Report, error) {
	if err := p.checkPaths(input, output); err != nil {
		return nil, err
	}

	info, err := p.ffmpeg.ProbeVideo(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	result, err := p.source.Detect(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	effFPS := p.effectiveFPS(result, info.FPS)

	positions, sizes := track.BuildTrack(result.Observations, p.validity(), p.profile.SelectionKey)

	zoomRatio := track.ResolveZoom(sizes, track.ZoomConfig{
		Auto:        p.cfg.Crop.AutoZoom,
		TargetRatio: p.cfg.Crop.TargetObjectRatio,
		ManualRatio: p.cfg.Crop.ManualZoomRatio,
	})
	p.logger.Info().
		Float64("crop_ratio", zoomRatio).
		Float64("zoom", 1/zoomRatio).
		Bool("auto", p.cfg.Crop.AutoZoom).
		Msg("zoom resolved")

	positions = track.SmoothPositions(positions, p.cfg.Crop.SmoothWindow)

	steps := buildCropPlan(positions, info.Width, info.Height,
		info.Duration.Seconds(), effFPS, zoomRatio,
		p.cfg.Crop.HorizontalAnchor, p.cfg.Crop.VerticalAnchor)

	report := &Report{
		EffectiveFPS: effFPS,
		ZoomRatio:    zoomRatio,
		FramesKept:   len(steps),
	}
	for _, step := range steps {
		if step.Corrected {
			report.CorrectedFrames++
		}
	}

	if len(steps) == 0 {
		p.logger.Warn().
			Str("profile", p.profile.Name()).
			Msg("no positions detected, no cropped output written")
		return report, nil
	}

	p.logger.Info().
		Int("frames", len(steps)).
		Int("edge_corrected", report.CorrectedFrames).
		Msg("crop plan built")

	tempDir, err := os.MkdirTemp("", "handcut-crop-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	clipPaths := make([]string, 0, len(steps))
	for _, step := range steps {
		filters := ffmpeg.NewFilterBuilder().
			Crop(step.Rect.Width, step.Rect.Height, step.Rect.X, step.Rect.Y).
			Filters()

		clipPath := filepath.Join(tempDir, uuid.NewString()+filepath.Ext(output))
		err := p.ffmpeg.ExtractClip(ctx, input, ffmpeg.ClipOptions{
			Start:   secondsToDuration(step.Start),
			End:     secondsToDuration(step.End),
			Output:  clipPath,
			Filters: filters,
		})
		if err != nil {
			return nil, err
		}
		clipPaths = append(clipPaths, clipPath)
	}

	if err := p.ffmpeg.Concat(ctx, ffmpeg.ConcatOptions{
		Inputs: clipPaths,
		Output: output,
	}); err != nil {
		return nil, err
	}

	report.Output = output
	p.logger.Info().Str("output", output).Msg("crop complete")
	return report, nil
}
