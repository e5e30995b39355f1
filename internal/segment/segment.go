// Package segment turns per-frame presence masks into the list of time
// ranges worth keeping from the source video.
package segment

import "fmt"

// Segment is a kept time interval of the source video, in seconds.
type Segment struct {
	Start float64
	End   float64
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// FromMask converts a boolean presence mask into padded keep-segments.
// The mask is run-length decoded at the given fps, runs shorter than
// minKeepSec are dropped, survivors separated by at most mergeGapSec are
// merged, and the result is padded by padSec on both sides (start is
// floored at zero; the upper bound is left to Clamp).
//
// Filtering happens before merging on purpose: short noise bursts must
// not be rescued by proximity to each other.
//
// An all-false mask yields an empty list. fps must be positive.
func FromMask(mask []bool, fps, minKeepSec, padSec, mergeGapSec float64) ([]Segment, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("segment: fps must be positive, got %g", fps)
	}

	raw := decodeRuns(mask, fps)
	kept := filterShort(raw, minKeepSec)
	merged := mergeClose(kept, mergeGapSec)
	return pad(merged, padSec), nil
}

// Clamp restricts every segment to [0, duration] and drops any that end
// up empty or inverted. Order is preserved; applying it twice with the
// same duration changes nothing.
func Clamp(segments []Segment, duration float64) []Segment {
	clamped := make([]Segment, 0, len(segments))
	for _, s := range segments {
		start := clampValue(s.Start, 0, duration)
		end := clampValue(s.End, 0, duration)
		if end > start {
			clamped = append(clamped, Segment{Start: start, End: end})
		}
	}
	return clamped
}

// decodeRuns emits one segment per maximal run of true values. The run
// [i, j) maps to (i/fps, j/fps), so a single true frame still yields a
// 1/fps second segment.
func decodeRuns(mask []bool, fps float64) []Segment {
	var segments []Segment
	n := len(mask)
	i := 0
	for i < n {
		if !mask[i] {
			i++
			continue
		}
		j := i + 1
		for j < n && mask[j] {
			j++
		}
		segments = append(segments, Segment{
			Start: float64(i) / fps,
			End:   float64(j) / fps,
		})
		i = j
	}
	return segments
}

func filterShort(segments []Segment, minKeepSec float64) []Segment {
	kept := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if s.Duration() >= minKeepSec {
			kept = append(kept, s)
		}
	}
	return kept
}

func mergeClose(segments []Segment, mergeGapSec float64) []Segment {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]Segment, 0, len(segments))
	current := segments[0]

	for _, s := range segments[1:] {
		if s.Start-current.End <= mergeGapSec {
			current.End = s.End
		} else {
			merged = append(merged, current)
			current = s
		}
	}

	return append(merged, current)
}

// pad widens each segment by padSec on both sides. Padding can
// reintroduce mild overlap between neighbors; consumers must tolerate
// that, since there is no re-merge pass afterwards.
func pad(segments []Segment, padSec float64) []Segment {
	padded := make([]Segment, 0, len(segments))
	for _, s := range segments {
		start := s.Start - padSec
		if start < 0 {
			start = 0
		}
		padded = append(padded, Segment{Start: start, End: s.End + padSec})
	}
	return padded
}

func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
