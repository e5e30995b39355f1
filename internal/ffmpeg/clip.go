package ffmpeg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kikiluvv/handcut/pkg/util"
)

// ClipOptions defines clip extraction parameters
type ClipOptions struct {
	Start  time.Duration
	End    time.Duration
	Output string
	// CopyCodec uses -c copy for fast extraction. It cuts on keyframes
	// only and cannot be combined with Filters.
	CopyCodec bool
	// Filters is an optional -vf chain (crop, scale, ...) applied while
	// re-encoding the clip.
	Filters      []string
	ProgressFunc ProgressFunc
}

// ExtractClip cuts a segment from a video, optionally through a video
// filter chain.
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	duration := opts.End - opts.Start
	if duration <= 0 {
		return fmt.Errorf("invalid clip duration: end must be after start")
	}
	if opts.CopyCodec && len(opts.Filters) > 0 {
		return fmt.Errorf("filters require re-encoding, not codec copy")
	}

	e.logger.Debug().
		Str("input", input).
		Str("output", opts.Output).
		Dur("start", opts.Start).
		Dur("duration", duration).
		Strs("filters", opts.Filters).
		Msg("extracting clip")

	args := []string{
		"-i", input,
		"-ss", util.FormatDuration(opts.Start),
		"-t", util.FormatDuration(duration),
	}

	if opts.CopyCodec {
		args = append(args, "-c", "copy")
	} else {
		if len(opts.Filters) > 0 {
			args = append(args, "-vf", strings.Join(opts.Filters, ","))
		}
		args = append(args,
			"-c:v", DefaultVideoCodec,
			"-preset", e.preset,
			"-crf", fmt.Sprintf("%d", e.crf),
			"-c:a", DefaultAudioCodec,
		)
	}

	args = append(args, opts.Output)

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("clip extraction")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	return nil
}
