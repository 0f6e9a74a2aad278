package planner

import (
	"math"
	"sort"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	anchorSnapTolerance = 0.16
	fpsFallback         = 30.0
	fpsMin              = 12.0
	fpsMax              = 120.0
)

// BuildAnchors collects perceptually meaningful timestamps to snap adjustment
// edges to: motion peaks, sentence-terminal boundaries, and the edges of
// highly hesitant segments. Sorted ascending, deduplicated at millisecond
// granularity.
func BuildAnchors(segments []entities.TranscriptSignalSegment, peaks []float64) []float64 {
	anchors := make([]float64, 0, len(peaks)+len(segments)*2)
	anchors = append(anchors, peaks...)

	for _, seg := range segments {
		if seg.SentenceTerminal {
			anchors = append(anchors, seg.End)
		}
		if seg.HesitationScore >= hesitationThreshold {
			anchors = append(anchors, seg.Start, seg.End)
		}
	}

	sort.Float64s(anchors)
	out := anchors[:0]
	last := math.Inf(-1)
	for _, a := range anchors {
		if a-last < 0.001 {
			continue
		}
		out = append(out, a)
		last = a
	}
	return out
}

// snapDown moves t to the nearest anchor at or below it within tolerance
func snapDown(t float64, anchors []float64) float64 {
	best := t
	for _, a := range anchors {
		if a > t {
			break
		}
		if t-a <= anchorSnapTolerance {
			best = a
		}
	}
	return best
}

// snapUp moves t to the nearest anchor at or above it within tolerance
func snapUp(t float64, anchors []float64) float64 {
	for _, a := range anchors {
		if a < t {
			continue
		}
		if a-t <= anchorSnapTolerance {
			return a
		}
		break
	}
	return t
}

// normalizeFPS coerces the source frame rate into a usable value
func normalizeFPS(fps float64) float64 {
	if math.IsNaN(fps) || fps <= 0 {
		return fpsFallback
	}
	return clamp(fps, fpsMin, fpsMax)
}

// alignEvenFrame snaps t to an even frame boundary for the given fps.
// The frame index is rounded then forced even, flooring for span starts and
// ceiling for span ends so aligned spans never shrink past their edges.
func alignEvenFrame(t, fps float64, isEnd bool) float64 {
	fps = normalizeFPS(fps)
	idx := math.Round(t * fps)
	if idx < 0 {
		idx = 0
	}
	if int64(idx)%2 != 0 {
		if isEnd {
			idx++
		} else {
			idx--
		}
	}
	if idx < 0 {
		idx = 0
	}
	return idx / fps
}
