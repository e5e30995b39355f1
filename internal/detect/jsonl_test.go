package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStream = `{"effective_fps": 10, "total_frames": 5}
{"frame": 1, "landmarks": [[[0.1, 0.2], [0.3, 0.4]]]}
{"frame": 3, "landmarks": [[[0.5, 0.5], [0.7, 0.9]], [[0.2, 0.2], [0.25, 0.3]]]}
`

func TestDecodeStream(t *testing.T) {
	result, err := decodeStream(strings.NewReader(sampleStream), false)
	require.NoError(t, err)

	assert.Equal(t, 10.0, result.EffectiveFPS)
	require.Len(t, result.Observations, 5)

	// Skipped frames come back empty.
	assert.Empty(t, result.Observations[0])
	assert.Empty(t, result.Observations[2])
	assert.Empty(t, result.Observations[4])

	require.Len(t, result.Observations[1], 1)
	box := result.Observations[1][0]
	assert.InDelta(t, 0.1, box.XMin, 1e-9)
	assert.InDelta(t, 0.3, box.XMax, 1e-9)
	assert.InDelta(t, 0.2, box.YMin, 1e-9)
	assert.InDelta(t, 0.4, box.YMax, 1e-9)
	assert.InDelta(t, 0.04, box.Area, 1e-9)

	require.Len(t, result.Observations[3], 2)
}

func TestDecodeStreamEmpty(t *testing.T) {
	_, err := decodeStream(strings.NewReader(""), false)
	assert.Error(t, err)
}

func TestDecodeStreamBadHeader(t *testing.T) {
	_, err := decodeStream(strings.NewReader("not json\n"), false)
	assert.Error(t, err)
}

func TestDecodeStreamOutOfOrder(t *testing.T) {
	stream := `{"effective_fps": 10, "total_frames": 3}
{"frame": 2, "landmarks": []}
{"frame": 1, "landmarks": []}
`
	_, err := decodeStream(strings.NewReader(stream), false)
	assert.Error(t, err)
}

func TestDecodeStreamSkipsBlankLines(t *testing.T) {
	stream := `{"effective_fps": 5, "total_frames": 2}

{"frame": 0, "landmarks": [[[0.1, 0.1], [0.2, 0.2]]]}
`
	result, err := decodeStream(strings.NewReader(stream), false)
	require.NoError(t, err)
	require.Len(t, result.Observations, 2)
	assert.Len(t, result.Observations[0], 1)
}

func TestDecodeStreamRejectsBadFrameCounts(t *testing.T) {
	// Negative counts must surface as an error, not a panic in make.
	_, err := decodeStream(strings.NewReader(`{"total_frames": -5}`+"\n"), false)
	assert.Error(t, err)

	// Absurd counts would otherwise drive an unbounded allocation.
	_, err = decodeStream(strings.NewReader(`{"total_frames": 9000000000}`+"\n"), false)
	assert.Error(t, err)

	stream := `{"effective_fps": 10, "total_frames": 2}
{"frame": 99999999, "landmarks": []}
`
	_, err = decodeStream(strings.NewReader(stream), false)
	assert.Error(t, err)
}

func fakeDetector(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a shell")
	}
	script := filepath.Join(t.TempDir(), "detector.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0755))
	return script
}

func TestSidecarSource(t *testing.T) {
	stream := filepath.Join(t.TempDir(), "stream.jsonl")
	require.NoError(t, os.WriteFile(stream, []byte(sampleStream), 0644))

	script := fakeDetector(t, fmt.Sprintf("cat %s\n", stream))
	src := NewSidecarSource(zerolog.Nop(), script, nil, 15, 0.5)

	result, err := src.Detect(context.Background(), "ignored.mp4")
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.EffectiveFPS)
	assert.Len(t, result.Observations, 5)
}

// A sidecar that keeps writing after the stream goes bad must not wedge
// Detect on a full pipe; the decode error has to come back promptly.
func TestSidecarSourceMalformedStream(t *testing.T) {
	script := fakeDetector(t, `echo '{"effective_fps": 10, "total_frames": 100000}'
echo 'not json'
i=0
while [ $i -lt 20000 ]; do
  echo '{"frame": '$i', "landmarks": []}'
  i=$((i+1))
done
`)
	src := NewSidecarSource(zerolog.Nop(), script, nil, 15, 0.5)

	done := make(chan error, 1)
	go func() {
		_, err := src.Detect(context.Background(), "ignored.mp4")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid detection stream")
	case <-time.After(30 * time.Second):
		t.Fatal("Detect did not return after a malformed stream line")
	}
}

func TestSidecarSourceCommandFailure(t *testing.T) {
	script := fakeDetector(t, "exit 3\n")
	src := NewSidecarSource(zerolog.Nop(), script, nil, 15, 0.5)

	_, err := src.Detect(context.Background(), "ignored.mp4")
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleStream), 0644))

	src := FileSource{Path: path, FallbackFPS: 15}
	result, err := src.Detect(context.Background(), "ignored.mp4")
	require.NoError(t, err)

	assert.Equal(t, 10.0, result.EffectiveFPS)
	assert.Len(t, result.Observations, 5)
}

func TestFileSourceFallbackFPS(t *testing.T) {
	stream := `{"total_frames": 1}
{"frame": 0, "landmarks": []}
`
	path := filepath.Join(t.TempDir(), "detections.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(stream), 0644))

	src := FileSource{Path: path, FallbackFPS: 15}
	result, err := src.Detect(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 15.0, result.EffectiveFPS)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := FileSource{Path: "/does/not/exist.jsonl"}
	_, err := src.Detect(context.Background(), "")
	assert.Error(t, err)
}
