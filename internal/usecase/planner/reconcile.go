package planner

import (
	"math"
	"sort"
	"strings"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	// Overlap share of the shorter span at which two same-action
	// adjustments merge. Empirically tuned, preserved as-is.
	mergeOverlapShare = 0.62

	motionContinuityThreshold = 0.62
	rebalanceMaxDuration      = 90.0
	rebalancePeakDensity      = 0.95
	densityWindowSeconds      = 7.5
	maxProtectedTrims         = 2

	minCompressionDuration = 20.0
	minAlignedSpan         = 0.3
	maxFinalAdjustments    = 16
	fallbackBoostPosition  = 0.42
)

var speechDrivenMarkers = []string{"pause", "hesitation", "filler", "confidence"}

// ReconcileAdjustments resolves the raw pacing candidates into the final
// list: merge overlaps, guard trims against high-motion footage, rebalance
// for short high-motion clips, guarantee minimum compression, snap to
// anchors and even frames, then cap. Never returns an empty list.
func ReconcileAdjustments(
	raw []entities.PacingAdjustment,
	input entities.PlannerInput,
	segments []entities.TranscriptSignalSegment,
	windows []entities.TimelineWindow,
) []entities.PacingAdjustment {
	duration := input.Metadata.Duration
	peaks := input.FrameScan.MotionPeaks

	adjustments := mergeOverlapping(raw)
	adjustments = guardMotionContinuity(adjustments, peaks)
	adjustments = rebalanceHighMotion(adjustments, peaks, duration)
	adjustments = ensureCompression(adjustments, windows, duration)

	anchors := BuildAnchors(segments, peaks)
	adjustments = alignAdjustments(adjustments, anchors, input.Metadata.FPS, duration)

	sort.SliceStable(adjustments, func(i, j int) bool {
		if adjustments[i].Start != adjustments[j].Start {
			return adjustments[i].Start < adjustments[j].Start
		}
		return adjustments[i].Intensity > adjustments[j].Intensity
	})
	if len(adjustments) > maxFinalAdjustments {
		adjustments = adjustments[:maxFinalAdjustments]
	}

	if len(adjustments) == 0 {
		adjustments = append(adjustments, fallbackAdjustment(duration, input.Metadata.FPS))
	}
	return adjustments
}

// mergeOverlapping merges same-action pairs whose overlap covers at least
// 62% of the shorter span. The higher-intensity member keeps its reason.
func mergeOverlapping(raw []entities.PacingAdjustment) []entities.PacingAdjustment {
	if len(raw) == 0 {
		return nil
	}
	sorted := make([]entities.PacingAdjustment, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := []entities.PacingAdjustment{sorted[0]}
	for _, next := range sorted[1:] {
		last := &out[len(out)-1]
		if next.Action == last.Action && overlapShare(*last, next) >= mergeOverlapShare {
			merged := *last
			merged.Start = math.Min(last.Start, next.Start)
			merged.End = math.Max(last.End, next.End)
			if next.Intensity > merged.Intensity {
				merged.Intensity = next.Intensity
				merged.Reason = next.Reason
				merged.SpeedMultiplier = next.SpeedMultiplier
			}
			*last = merged
			continue
		}
		out = append(out, next)
	}
	return out
}

// overlapShare returns the overlap length as a fraction of the shorter span
func overlapShare(a, b entities.PacingAdjustment) float64 {
	overlap := math.Min(a.End, b.End) - math.Max(a.Start, b.Start)
	if overlap <= 0 {
		return 0
	}
	shorter := math.Min(a.SpanSeconds(), b.SpanSeconds())
	if shorter <= 0 {
		return 0
	}
	return overlap / shorter
}

// guardMotionContinuity converts trims to speed-ups when the surrounding
// motion-peak density is high, unless the trim was speech-driven. Hard cuts
// in continuous motion read as jarring jumps.
func guardMotionContinuity(adjustments []entities.PacingAdjustment, peaks []float64) []entities.PacingAdjustment {
	for i, adj := range adjustments {
		if adj.Action != entities.PacingActionTrim {
			continue
		}
		if isSpeechDriven(adj.Reason) {
			continue
		}
		if motionContinuity(adj.Start, adj.End, peaks) < motionContinuityThreshold {
			continue
		}
		adjustments[i] = toSpeedUp(adj, "motion continuity too high for a hard cut")
	}
	return adjustments
}

func isSpeechDriven(reason string) bool {
	lower := strings.ToLower(reason)
	for _, m := range speechDrivenMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// motionContinuity scores the motion-peak density in a band around the span,
// normalized so roughly one peak per densityWindowSeconds scores 0.8.
func motionContinuity(start, end float64, peaks []float64) float64 {
	bandStart := start - 3
	bandEnd := end + 3
	bandLen := bandEnd - bandStart
	if bandLen <= 0 {
		return 0
	}
	count := 0
	for _, p := range peaks {
		if p >= bandStart && p <= bandEnd {
			count++
		}
	}
	perWindow := float64(count) * densityWindowSeconds / bandLen
	return clamp01(perWindow * 0.8)
}

func toSpeedUp(adj entities.PacingAdjustment, reason string) entities.PacingAdjustment {
	adj.Action = entities.PacingActionSpeedUp
	if adj.SpeedMultiplier == 0 {
		adj.SpeedMultiplier = clamp(speedMultiplierMin+adj.Intensity*0.4, speedMultiplierMin, speedMultiplierMax)
	}
	adj.Reason = reason
	return adj
}

// rebalanceHighMotion handles short high-motion clips: hard trims read badly
// there, so only up to two protected speech trims survive and the rest
// become speed-ups.
func rebalanceHighMotion(adjustments []entities.PacingAdjustment, peaks []float64, duration float64) []entities.PacingAdjustment {
	if duration > rebalanceMaxDuration || duration <= 0 {
		return adjustments
	}
	density := float64(len(peaks)) * densityWindowSeconds / duration
	if density < rebalancePeakDensity {
		return adjustments
	}

	protected := 0
	for i, adj := range adjustments {
		if adj.Action != entities.PacingActionTrim {
			continue
		}
		lower := strings.ToLower(adj.Reason)
		isProtected := strings.Contains(lower, "filler") || strings.Contains(lower, "dead-air")
		if isProtected && protected < maxProtectedTrims {
			protected++
			continue
		}
		adjustments[i] = toSpeedUp(adj, "rebalanced for high-motion short form")
	}
	return adjustments
}

// ensureCompression injects speed-ups over the two weakest windows when the
// pipeline produced none and the video is long enough to need tightening.
func ensureCompression(adjustments []entities.PacingAdjustment, windows []entities.TimelineWindow, duration float64) []entities.PacingAdjustment {
	if duration < minCompressionDuration {
		return adjustments
	}
	for _, adj := range adjustments {
		if adj.Action == entities.PacingActionSpeedUp {
			return adjustments
		}
	}

	ranked := make([]entities.TimelineWindow, len(windows))
	copy(ranked, windows)
	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := windowWeakness(ranked[i]), windowWeakness(ranked[j])
		if wi != wj {
			return wi > wj
		}
		return ranked[i].Start < ranked[j].Start
	})

	added := 0
	for _, w := range ranked {
		if added >= 2 {
			break
		}
		if w.End-w.Start < 2 {
			continue
		}
		adjustments = append(adjustments, speedUpForWindow(w, "minimum compression over weakest stretch"))
		added++
	}
	return adjustments
}

// alignAdjustments snaps spans to anchors then to even frame boundaries and
// drops anything that collapses below the minimum span.
func alignAdjustments(adjustments []entities.PacingAdjustment, anchors []float64, fps, duration float64) []entities.PacingAdjustment {
	out := make([]entities.PacingAdjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		start := snapDown(adj.Start, anchors)
		end := snapUp(adj.End, anchors)

		start = alignEvenFrame(start, fps, false)
		end = alignEvenFrame(end, fps, true)

		if end > duration {
			end = alignEvenFrame(duration, fps, false)
		}
		if start < 0 {
			start = 0
		}
		if end-start < minAlignedSpan {
			continue
		}
		adj.Start = start
		adj.End = end
		out = append(out, adj)
	}
	return out
}

// fallbackAdjustment is the guaranteed output when everything else collapsed:
// one transition boost just before the midpoint of the video.
func fallbackAdjustment(duration, fps float64) entities.PacingAdjustment {
	limit := alignEvenFrame(duration, fps, false)
	start := alignEvenFrame(duration*fallbackBoostPosition, fps, false)
	end := alignEvenFrame(start+interruptSpan, fps, true)
	if end > limit {
		end = limit
	}
	if end-start < minAlignedSpan {
		// pull the start back toward zero rather than pushing the end
		// past the video
		start = alignEvenFrame(math.Max(0, end-minAlignedSpan*2), fps, false)
	}
	return entities.PacingAdjustment{
		Start:     start,
		End:       end,
		Action:    entities.PacingActionTransitionBoost,
		Intensity: 0.4,
		Reason:    "fallback mid-video transition",
	}
}
