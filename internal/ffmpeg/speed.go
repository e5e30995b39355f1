package ffmpeg

import (
	"context"
	"fmt"
	"strings"
)

// ChangeSpeed re-encodes input with a uniform playback speed multiplier.
// Video timestamps are rescaled with setpts; audio goes through an
// atempo chain when the source has an audio stream.
func (e *Executor) ChangeSpeed(ctx context.Context, input, output string, factor float64, hasAudio bool, progress ProgressFunc) error {
	if factor <= 0 {
		return fmt.Errorf("speed factor must be positive, got %g", factor)
	}
	if input == "" || output == "" {
		return fmt.Errorf("input and output paths are required")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Float64("factor", factor).
		Msg("changing playback speed")

	args := []string{"-i", input}

	if hasAudio {
		filter := fmt.Sprintf("[0:v]setpts=PTS/%g[v];[0:a]%s[a]", factor, atempoChain(factor))
		args = append(args,
			"-filter_complex", filter,
			"-map", "[v]", "-map", "[a]",
		)
	} else {
		args = append(args, "-vf", fmt.Sprintf("setpts=PTS/%g", factor), "-an")
	}

	args = append(args,
		"-c:v", DefaultVideoCodec,
		"-preset", e.preset,
		"-crf", fmt.Sprintf("%d", e.crf),
	)
	if hasAudio {
		args = append(args, "-c:a", DefaultAudioCodec)
	}
	args = append(args, output)

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: progress,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("speed change")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("speed change failed: %w", err)
	}

	return nil
}

// atempoChain breaks a tempo factor into a chain of atempo filters.
// A single atempo only accepts [0.5, 2.0], so 3.0 becomes
// "atempo=2.0,atempo=1.5".
func atempoChain(factor float64) string {
	var steps []string

	for factor > 2.0 {
		steps = append(steps, "atempo=2.0")
		factor /= 2.0
	}
	for factor < 0.5 {
		steps = append(steps, "atempo=0.5")
		factor /= 0.5
	}
	steps = append(steps, fmt.Sprintf("atempo=%g", factor))

	return strings.Join(steps, ",")
}
