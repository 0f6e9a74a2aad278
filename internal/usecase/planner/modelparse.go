package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// ExtractJSON scans a free-form model reply for the first well-formed JSON
// document: the whole string, then the substring between the first and last
// braces, then between the first and last brackets.
func ExtractJSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) && trimmed != "" {
		return trimmed, true
	}

	if sub, ok := between(trimmed, '{', '}'); ok && json.Valid([]byte(sub)) {
		return sub, true
	}
	if sub, ok := between(trimmed, '[', ']'); ok && json.Valid([]byte(sub)) {
		return sub, true
	}
	return "", false
}

func between(s string, open, close byte) (string, bool) {
	first := strings.IndexByte(s, open)
	last := strings.LastIndexByte(s, close)
	if first == -1 || last == -1 || last <= first {
		return "", false
	}
	return s[first : last+1], true
}

// ParseCutPlanReply parses an extracted JSON document into the cut-plan
// shape. Field coercion and clamping happen later, against the video.
func ParseCutPlanReply(doc string) (*entities.ModelCutPlanReply, error) {
	var reply entities.ModelCutPlanReply
	if err := json.Unmarshal([]byte(doc), &reply); err != nil {
		return nil, fmt.Errorf("decode cut plan reply: %w", err)
	}
	return &reply, nil
}

// ParseHookRankReply parses an extracted JSON document into the hook-rank
// shape.
func ParseHookRankReply(doc string) (*entities.ModelHookRankReply, error) {
	var reply entities.ModelHookRankReply
	if err := json.Unmarshal([]byte(doc), &reply); err != nil {
		return nil, fmt.Errorf("decode hook rank reply: %w", err)
	}
	return &reply, nil
}

// CutsToAdjustments coerces model cuts into pacing adjustments: unknown
// actions and spans outside the video are dropped, numerics are clamped the
// same way heuristic output is, and edges are snapped to even frames.
// An empty result means the model cut list is unusable and the heuristic
// list stands.
func CutsToAdjustments(cuts []entities.ModelCut, metadata entities.VideoMetadata) []entities.PacingAdjustment {
	duration := metadata.Duration
	out := make([]entities.PacingAdjustment, 0, len(cuts))

	for _, cut := range cuts {
		if cut.StartSec == nil || cut.EndSec == nil {
			continue
		}
		action := entities.PacingAction(strings.ToLower(strings.TrimSpace(cut.Action)))
		switch action {
		case entities.PacingActionTrim, entities.PacingActionSpeedUp, entities.PacingActionTransitionBoost:
		default:
			continue
		}

		start := clamp(*cut.StartSec, 0, duration)
		end := clamp(*cut.EndSec, 0, duration)
		start = alignEvenFrame(start, metadata.FPS, false)
		end = alignEvenFrame(end, metadata.FPS, true)
		if end > duration {
			end = alignEvenFrame(duration, metadata.FPS, false)
		}
		if end-start < minAlignedSpan {
			continue
		}

		intensity := 0.5
		if cut.Intensity != nil {
			intensity = clamp(*cut.Intensity, 0.05, 1)
		}

		adj := entities.PacingAdjustment{
			Start:     start,
			End:       end,
			Action:    action,
			Intensity: intensity,
			Reason:    strings.TrimSpace(cut.Reason),
		}
		if adj.Reason == "" {
			adj.Reason = "model-suggested " + string(action)
		}
		if action == entities.PacingActionSpeedUp {
			multiplier := 1.4
			if cut.SpeedMultiplier != nil {
				multiplier = *cut.SpeedMultiplier
			}
			adj.SpeedMultiplier = clamp(multiplier, speedMultiplierMin, speedMultiplierMax)
		}
		out = append(out, adj)

		if len(out) >= maxFinalAdjustments {
			break
		}
	}
	return out
}

// SegmentsToInsights coerces model segment judgments, clamping retention
// into [8,99] and dropping malformed spans.
func SegmentsToInsights(segments []entities.ModelSegment, duration float64) []entities.SegmentRetentionInsight {
	out := make([]entities.SegmentRetentionInsight, 0, len(segments))
	for _, seg := range segments {
		if seg.StartSec == nil || seg.EndSec == nil {
			continue
		}
		start := clamp(*seg.StartSec, 0, duration)
		end := clamp(*seg.EndSec, 0, duration)
		if end <= start {
			continue
		}
		retention := 50.0
		if seg.PredictedRetentionPercent != nil {
			retention = *seg.PredictedRetentionPercent
		}
		out = append(out, entities.SegmentRetentionInsight{
			Start:              start,
			End:                end,
			PredictedRetention: clamp(retention, 8, 99),
			Reason:             strings.TrimSpace(seg.Reason),
			Fix:                strings.TrimSpace(seg.Fix),
		})
	}
	return out
}
