package detect

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/kikiluvv/handcut/internal/track"
)

// The wire format between the detector sidecar and the core is
// newline-delimited JSON: a header line announcing the achieved sampling
// rate, then one line per sampled frame carrying the landmark point sets
// of every detected object. Frames with nothing detected may be omitted.
//
//	{"effective_fps": 14.985, "total_frames": 450}
//	{"frame": 0, "landmarks": [[[0.41, 0.52], [0.44, 0.48]]]}

// maxStreamFrames bounds the frame counts a stream may claim. At 15fps
// this is roughly 77 hours of video; anything past it is a corrupt or
// hostile header, not a real recording.
const maxStreamFrames = 4 << 20

type streamHeader struct {
	EffectiveFPS float64 `json:"effective_fps"`
	TotalFrames  int     `json:"total_frames"`
}

type frameLine struct {
	Frame     int            `json:"frame"`
	Landmarks [][][2]float64 `json:"landmarks"`
}

// SidecarSource runs an external landmark detector command and consumes
// its JSONL output. The sidecar owns frame decoding and model inference;
// this side only parses geometry.
type SidecarSource struct {
	logger        zerolog.Logger
	command       string
	args          []string
	fpsSample     int
	minConfidence float64
	// ShowProgress renders a frame counter on stderr while the sidecar runs.
	ShowProgress bool
}

// NewSidecarSource creates a source backed by the given detector command.
func NewSidecarSource(logger zerolog.Logger, command string, args []string, fpsSample int, minConfidence float64) *SidecarSource {
	return &SidecarSource{
		logger:        logger.With().Str("component", "detector").Logger(),
		command:       command,
		args:          args,
		fpsSample:     fpsSample,
		minConfidence: minConfidence,
	}
}

// Detect runs the sidecar against a video and collects its observations.
func (s *SidecarSource) Detect(ctx context.Context, videoPath string) (*Result, error) {
	if s.command == "" {
		return nil, fmt.Errorf("detect: no detector command configured")
	}

	args := append([]string(nil), s.args...)
	args = append(args,
		"--video", videoPath,
		"--fps-sample", strconv.Itoa(s.fpsSample),
		"--min-confidence", strconv.FormatFloat(s.minConfidence, 'f', -1, 64),
	)

	s.logger.Debug().
		Str("cmd", s.command).
		Strs("args", args).
		Msg("starting landmark detector")

	cmd := exec.CommandContext(ctx, s.command, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start detector %q: %w", s.command, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			s.logger.Debug().Str("detector", scanner.Text()).Msg("sidecar output")
		}
	}()

	result, decodeErr := decodeStream(stdout, s.ShowProgress)
	if decodeErr != nil {
		// The sidecar may still be writing frames nobody will read;
		// drain its stdout so it can exit instead of blocking on a
		// full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	wg.Wait()
	waitErr := cmd.Wait()
	if decodeErr != nil {
		return nil, decodeErr
	}
	if waitErr != nil {
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("landmark detector failed: %w", waitErr)
	}

	s.logger.Info().
		Int("frames", len(result.Observations)).
		Float64("effective_fps", result.EffectiveFPS).
		Msg("detection complete")

	return result, nil
}

// FileSource replays a saved detection stream, for offline reruns and
// tests. fallbackFPS is used when the file header carries no rate.
type FileSource struct {
	Path        string
	FallbackFPS float64
}

// Detect reads the stream; the video path is ignored.
func (f FileSource) Detect(ctx context.Context, _ string) (*Result, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open detections file: %w", err)
	}
	defer file.Close()

	result, err := decodeStream(file, false)
	if err != nil {
		return nil, err
	}
	if result.EffectiveFPS <= 0 {
		result.EffectiveFPS = f.FallbackFPS
	}
	return result, nil
}

// decodeStream parses a detection stream into per-frame observations.
// Frame indices the stream skips come back as empty observation sets, so
// the result is always contiguous from frame zero.
func decodeStream(r io.Reader, showProgress bool) (*Result, error) {
	scanner := bufio.NewScanner(r)
	// Landmark-heavy frames can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read detection stream: %w", err)
		}
		return nil, fmt.Errorf("detection stream is empty")
	}

	var header streamHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, fmt.Errorf("invalid detection stream header: %w", err)
	}
	if header.TotalFrames < 0 || header.TotalFrames > maxStreamFrames {
		return nil, fmt.Errorf("invalid detection stream header: total_frames %d out of range", header.TotalFrames)
	}

	var bar *progressbar.ProgressBar
	if showProgress && header.TotalFrames > 0 {
		bar = progressbar.NewOptions(header.TotalFrames,
			progressbar.OptionSetDescription("detecting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	observations := make([][]track.BoundingBox, 0, header.TotalFrames)
	lineNo := 1

	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var fl frameLine
		if err := json.Unmarshal(line, &fl); err != nil {
			return nil, fmt.Errorf("invalid detection stream line %d: %w", lineNo, err)
		}
		if fl.Frame < len(observations) {
			return nil, fmt.Errorf("detection stream line %d: frame %d out of order", lineNo, fl.Frame)
		}
		if fl.Frame > maxStreamFrames {
			return nil, fmt.Errorf("detection stream line %d: frame %d out of range", lineNo, fl.Frame)
		}

		// Pad frames the sidecar skipped because nothing was detected.
		for len(observations) < fl.Frame {
			observations = append(observations, nil)
		}

		var boxes []track.BoundingBox
		for _, landmarks := range fl.Landmarks {
			points := make([]track.Point, len(landmarks))
			for i, lm := range landmarks {
				points[i] = track.Point{X: lm[0], Y: lm[1]}
			}
			if box, ok := track.BoxFromPoints(points); ok {
				boxes = append(boxes, box)
			}
		}
		observations = append(observations, boxes)

		if bar != nil {
			_ = bar.Set(len(observations))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read detection stream: %w", err)
	}

	// Trailing undetected frames are omitted from the stream too.
	for len(observations) < header.TotalFrames {
		observations = append(observations, nil)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return &Result{
		Observations: observations,
		EffectiveFPS: header.EffectiveFPS,
	}, nil
}
