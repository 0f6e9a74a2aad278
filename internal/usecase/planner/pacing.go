package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	pauseGapMinThreshold = 0.56
	pauseGapMaxThreshold = 0.82
	pauseSafetyBuffer    = 0.08

	hesitationThreshold = 0.58
	fillerThreshold     = 0.38

	lowEnergyMinWindow = 6.5
	lowEnergyMaxWPS    = 1.35
	lowEnergyKeep      = 5

	motionGapMinSeconds = 8.5
	motionGapInnerShare = 0.64

	interruptMinCadence = 10.0
	interruptMaxCadence = 15.0
	interruptSpan       = 0.45

	speedMultiplierMin = 1.2
	speedMultiplierMax = 1.8
)

// DerivePacingAdjustments runs the six pacing passes in a fixed order and
// returns their concatenated candidates. Each pass is pure; the reconciler
// owns conflict resolution.
func DerivePacingAdjustments(input entities.PlannerInput, segments []entities.TranscriptSignalSegment, windows []entities.TimelineWindow) []entities.PacingAdjustment {
	duration := input.Metadata.Duration
	var out []entities.PacingAdjustment
	out = append(out, pauseGapTrims(segments)...)
	out = append(out, hesitationTrims(segments)...)
	out = append(out, fillerTrims(segments)...)
	out = append(out, lowEnergyCompression(windows)...)
	out = append(out, motionGapCompression(input.FrameScan.MotionPeaks, duration)...)
	out = append(out, patternInterrupts(windows, duration)...)
	return out
}

// pauseGapTrims turns silence between consecutive segments into trims.
// The gap threshold rises with average confidence: confident speech earns
// tighter cuts, shaky speech keeps more breathing room.
func pauseGapTrims(segments []entities.TranscriptSignalSegment) []entities.PacingAdjustment {
	if len(segments) < 2 {
		return nil
	}

	confSum := 0.0
	for _, s := range segments {
		confSum += s.Confidence
	}
	avgConf := confSum / float64(len(segments))
	threshold := clamp(pauseGapMinThreshold+0.26*avgConf, pauseGapMinThreshold, pauseGapMaxThreshold)

	var out []entities.PacingAdjustment
	for i := 1; i < len(segments) && len(out) < 6; i++ {
		gap := segments[i].Start - segments[i-1].End
		if gap < threshold {
			continue
		}
		start := segments[i-1].End + pauseSafetyBuffer
		end := segments[i].Start - pauseSafetyBuffer
		if end-start < 0.3 {
			continue
		}
		out = append(out, entities.PacingAdjustment{
			Start:     start,
			End:       end,
			Action:    entities.PacingActionTrim,
			Intensity: clamp(gap/2.5, 0.05, 1),
			Reason:    fmt.Sprintf("dead-air pause of %.1fs between sentences", gap),
		})
	}
	return out
}

// hesitationTrims cuts stalled delivery. Long segments with little filler get
// a centered sub-span sized by the hesitation score instead of losing the
// whole inner span.
func hesitationTrims(segments []entities.TranscriptSignalSegment) []entities.PacingAdjustment {
	var out []entities.PacingAdjustment
	for _, seg := range segments {
		if len(out) >= 5 {
			break
		}
		h := clamp01(0.42*(1-seg.Confidence) + 0.42*clamp01(seg.FillerDensity*2.5) + 0.16*seg.RepetitionScore)
		if h < hesitationThreshold {
			continue
		}

		var start, end float64
		if seg.Duration >= 2.8 && seg.FillerDensity < 0.2 {
			width := seg.Duration * clamp(h*0.6, 0.3, 0.65)
			mid := (seg.Start + seg.End) / 2
			start = mid - width/2
			end = mid + width/2
		} else {
			start = seg.Start + pauseSafetyBuffer
			end = seg.End - pauseSafetyBuffer
		}
		if end-start < 0.3 {
			continue
		}
		out = append(out, entities.PacingAdjustment{
			Start:     start,
			End:       end,
			Action:    entities.PacingActionTrim,
			Intensity: h,
			Reason:    "hesitation in delivery",
		})
	}
	return out
}

// fillerTrims targets filler-heavy segments with a centered trim that
// preserves the sentence edges.
func fillerTrims(segments []entities.TranscriptSignalSegment) []entities.PacingAdjustment {
	var out []entities.PacingAdjustment
	for _, seg := range segments {
		if len(out) >= 5 {
			break
		}
		signal := clamp01(seg.FillerDensity * 2.5)
		if signal < fillerThreshold {
			continue
		}
		inset := math.Max(0.25, seg.Duration*0.18)
		start := seg.Start + inset
		end := seg.End - inset
		if end-start < 0.3 {
			continue
		}
		out = append(out, entities.PacingAdjustment{
			Start:     start,
			End:       end,
			Action:    entities.PacingActionTrim,
			Intensity: signal,
			Reason:    "filler-heavy phrasing",
		})
	}
	return out
}

// windowWeakness ranks how much a window drags: low energy and motion weigh
// most, low confidence and filler add to it.
func windowWeakness(w entities.TimelineWindow) float64 {
	return (1-w.Energy)*0.4 + (1-w.Motion)*0.3 + (1-w.Confidence)*0.2 + w.FillerDensity*0.1
}

// lowEnergyCompression speeds up slow, flat windows. When nothing qualifies
// the single weakest window is force-compressed so long quiet videos still
// get tightened.
func lowEnergyCompression(windows []entities.TimelineWindow) []entities.PacingAdjustment {
	type scored struct {
		w    entities.TimelineWindow
		rank float64
	}
	var eligible []scored
	for _, w := range windows {
		if w.End-w.Start < lowEnergyMinWindow {
			continue
		}
		if w.WordsPerSecond >= lowEnergyMaxWPS {
			continue
		}
		if w.Motion >= 0.3 && w.Energy >= 0.25 && !(w.Confidence < 0.55 || w.FillerDensity > 0.3) {
			continue
		}
		eligible = append(eligible, scored{w, windowWeakness(w)})
	}

	if len(eligible) == 0 {
		weakest := weakestWindow(windows, lowEnergyMinWindow)
		if weakest == nil {
			return nil
		}
		eligible = append(eligible, scored{*weakest, windowWeakness(*weakest)})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].rank != eligible[j].rank {
			return eligible[i].rank > eligible[j].rank
		}
		return eligible[i].w.Start < eligible[j].w.Start
	})
	if len(eligible) > lowEnergyKeep {
		eligible = eligible[:lowEnergyKeep]
	}

	out := make([]entities.PacingAdjustment, 0, len(eligible))
	for _, e := range eligible {
		out = append(out, speedUpForWindow(e.w, "low-energy stretch"))
	}
	return out
}

func weakestWindow(windows []entities.TimelineWindow, minSpan float64) *entities.TimelineWindow {
	var best *entities.TimelineWindow
	bestRank := -1.0
	for i := range windows {
		w := windows[i]
		if w.End-w.Start < minSpan {
			continue
		}
		rank := windowWeakness(w)
		if rank > bestRank {
			bestRank = rank
			best = &windows[i]
		}
	}
	return best
}

func speedUpForWindow(w entities.TimelineWindow, reason string) entities.PacingAdjustment {
	multiplier := clamp(speedMultiplierMin+(1-w.Motion)*0.3+(1-w.Confidence)*0.3, speedMultiplierMin, speedMultiplierMax)
	return entities.PacingAdjustment{
		Start:           w.Start,
		End:             w.End,
		Action:          entities.PacingActionSpeedUp,
		Intensity:       clamp(windowWeakness(w), 0.05, 1),
		SpeedMultiplier: multiplier,
		Reason:          reason,
	}
}

// motionGapCompression speeds through long stretches with no motion peaks,
// covering the inner 64% of each gap so the cut edges stay on lively footage.
func motionGapCompression(peaks []float64, duration float64) []entities.PacingAdjustment {
	if len(peaks) < 2 {
		return nil
	}
	var out []entities.PacingAdjustment
	for i := 1; i < len(peaks) && len(out) < 4; i++ {
		gap := peaks[i] - peaks[i-1]
		if gap < motionGapMinSeconds {
			continue
		}
		margin := gap * (1 - motionGapInnerShare) / 2
		start := peaks[i-1] + margin
		end := peaks[i] - margin
		if end-start < 0.4 || end > duration {
			continue
		}
		out = append(out, entities.PacingAdjustment{
			Start:           start,
			End:             end,
			Action:          entities.PacingActionSpeedUp,
			Intensity:       clamp(gap/20, 0.05, 1),
			SpeedMultiplier: clamp(speedMultiplierMin+gap*0.02, speedMultiplierMin, speedMultiplierMax),
			Reason:          fmt.Sprintf("%.1fs stretch with no visual motion", gap),
		})
	}
	return out
}

// patternInterrupts drops transition markers at a 10-15s cadence, hitting
// harder where the local window looks like a boredom point.
func patternInterrupts(windows []entities.TimelineWindow, duration float64) []entities.PacingAdjustment {
	cadence := clamp(duration/8, interruptMinCadence, interruptMaxCadence)

	var out []entities.PacingAdjustment
	for t := cadence; t < duration-interruptSpan && len(out) < 6; t += cadence {
		w := windowAt(windows, t)
		intensity := 0.35
		if w != nil {
			intensity += (1-w.Energy)*0.3 + (1-w.Motion)*0.25
		}
		out = append(out, entities.PacingAdjustment{
			Start:     t,
			End:       t + interruptSpan,
			Action:    entities.PacingActionTransitionBoost,
			Intensity: clamp(intensity, 0.05, 1),
			Reason:    "pattern interrupt to reset attention",
		})
	}
	return out
}

func windowAt(windows []entities.TimelineWindow, t float64) *entities.TimelineWindow {
	for i := range windows {
		if t >= windows[i].Start && t < windows[i].End {
			return &windows[i]
		}
	}
	return nil
}
