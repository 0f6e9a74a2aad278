package planner

import (
	"math"
	"strings"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	windowStrideMin   = 8.0
	windowStrideMax   = 20.0
	windowAdvance     = 0.88
	maxWindows        = 36
	windowTextCap     = 140
	motionDecaySecond = 9.0
)

// hypeLexicon lists words whose presence marks a high-energy moment.
var hypeLexicon = []string{
	"insane", "crazy", "amazing", "incredible", "secret", "never",
	"best", "worst", "free", "instantly", "hack", "mistake", "wrong",
	"win", "lose", "shocking", "unbelievable", "stop", "wait", "watch",
	"huge", "massive", "finally", "nobody",
}

// BuildWindows slices [0,duration) into overlapping analysis windows.
// Stride is clamp(duration/18, 8s, 20s) and each window advances 88% of the
// stride, capped at 36 windows. Deterministic and side-effect-free.
func BuildWindows(duration float64, segments []entities.TranscriptSignalSegment, scan entities.FrameScan) []entities.TimelineWindow {
	stride := clamp(duration/18, windowStrideMin, windowStrideMax)
	advance := stride * windowAdvance

	windows := make([]entities.TimelineWindow, 0, maxWindows)
	for start := 0.0; start < duration && len(windows) < maxWindows; start += advance {
		end := math.Min(start+stride, duration)
		if end-start < minSegmentSeconds {
			break
		}
		windows = append(windows, buildWindow(start, end, segments, scan.MotionPeaks))
	}

	if len(windows) == 0 {
		// degenerate input still yields one window over the whole clip
		windows = append(windows, buildWindow(0, math.Max(duration, minSegmentSeconds), segments, scan.MotionPeaks))
	}
	return windows
}

func buildWindow(start, end float64, segments []entities.TranscriptSignalSegment, peaks []float64) entities.TimelineWindow {
	var (
		texts      []string
		wordCount  int
		confSum    float64
		fillerSum  float64
		overlapped int
	)

	for _, seg := range segments {
		if seg.End <= start || seg.Start >= end {
			continue
		}
		texts = append(texts, seg.Text)
		wordCount += seg.WordCount
		confSum += seg.Confidence
		fillerSum += seg.FillerDensity
		overlapped++
	}

	text := truncate(strings.Join(texts, " "), windowTextCap)

	span := end - start
	wps := 0.0
	if span > 0 {
		wps = float64(wordCount) / span
	}

	confidence := defaultConfidence
	fillerDensity := 0.0
	if overlapped > 0 {
		confidence = confSum / float64(overlapped)
		fillerDensity = fillerSum / float64(overlapped)
	}

	return entities.TimelineWindow{
		Start:          start,
		End:            end,
		Text:           text,
		WordsPerSecond: wps,
		Energy:         transcriptEnergy(text, wps),
		Motion:         motionScoreAt((start+end)/2, peaks),
		Confidence:     confidence,
		FillerDensity:  fillerDensity,
	}
}

// transcriptEnergy scores how "hype" a span of speech is: hype-lexicon hit
// density plus question/exclamation boosts plus a fast-pacing boost,
// clamped to [0,1].
func transcriptEnergy(text string, wps float64) float64 {
	lower := strings.ToLower(text)
	words := wordTokenRe.FindAllString(lower, -1)

	hits := 0
	for _, w := range words {
		for _, h := range hypeLexicon {
			if w == h {
				hits++
				break
			}
		}
	}

	energy := 0.0
	if len(words) > 0 {
		energy = clamp01(float64(hits)/float64(len(words))*6) * 0.6
	}
	energy += clamp01(float64(strings.Count(text, "?"))*0.08)
	energy += clamp01(float64(strings.Count(text, "!"))*0.1)
	if wps > 2.4 {
		energy += clamp01((wps - 2.4) * 0.12)
	}
	return clamp01(energy)
}

// motionScoreAt is the inverse distance from t to the nearest motion peak,
// decaying to zero at motionDecaySecond seconds away.
func motionScoreAt(t float64, peaks []float64) float64 {
	if len(peaks) == 0 {
		return 0
	}
	nearest := math.Inf(1)
	for _, p := range peaks {
		d := math.Abs(p - t)
		if d < nearest {
			nearest = d
		}
	}
	return clamp01(1 - nearest/motionDecaySecond)
}
