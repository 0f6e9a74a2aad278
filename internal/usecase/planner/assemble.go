package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	retentionFallbackBase  = 42.0
	retentionHookWeight    = 36.0
	retentionStrongWeight  = 14.0
	retentionWeakWeight    = 18.0
	retentionFallbackFloor = 18.0
	retentionFallbackCeil  = 96.0
	maxHeuristicInsights   = 2
	titleSuggestionCount   = 5
)

// modelOutcome carries whatever the model layer managed to produce. Any
// field may be nil or empty; the assembler treats absence as "keep the
// heuristic answer".
type modelOutcome struct {
	cutPlan  *entities.ModelCutPlanReply
	hookRank *entities.ModelHookRankReply
	provider string
	model    string
	prompts  []entities.PlanPrompt
	notes    []string
}

// AssemblePlan merges the heuristic pipeline output with the optional model
// outcome into the final plan. The heuristic answer always exists; model
// output only overrides where it is present and well-formed.
func AssemblePlan(
	input entities.PlannerInput,
	segments []entities.TranscriptSignalSegment,
	windows []entities.TimelineWindow,
	ranked []entities.HookCandidate,
	selected entities.HookCandidate,
	comparison entities.HookComparison,
	adjustments []entities.PacingAdjustment,
	outcome *modelOutcome,
) entities.HookPlan {
	duration := input.Metadata.Duration
	plan := entities.HookPlan{
		RankedHooks:       ranked,
		PacingAdjustments: adjustments,
		HookComparison:    comparison,
	}
	notes := []string{"hook and pacing derived by deterministic heuristics"}

	if outcome != nil {
		plan.Prompts = outcome.prompts
		notes = append(notes, outcome.notes...)
	}

	// model hook ranking wins when its selected id names a real candidate
	if outcome != nil && outcome.hookRank != nil {
		if c, ok := candidateByID(ranked, outcome.hookRank.SelectedID); ok {
			selected = c
			comparison = rebuildComparison(ranked, c, outcome.hookRank)
			plan.HookComparison = comparison
			notes = append(notes, fmt.Sprintf("hook selection overridden by %s/%s", outcome.provider, outcome.model))
		}
	}
	sel := selected
	plan.SelectedHook = &sel

	// a non-empty, well-formed model cut list replaces the reconciled one
	if outcome != nil && outcome.cutPlan != nil {
		if cuts := CutsToAdjustments(outcome.cutPlan.Cuts, input.Metadata); len(cuts) > 0 {
			sort.SliceStable(cuts, func(i, j int) bool { return cuts[i].Start < cuts[j].Start })
			plan.PacingAdjustments = cuts
			notes = append(notes, fmt.Sprintf("pacing adjustments overridden by %s/%s", outcome.provider, outcome.model))
		}
	}

	weak, strong := heuristicInsights(windows)
	if outcome != nil && outcome.cutPlan != nil {
		if modelWeak := SegmentsToInsights(outcome.cutPlan.WeakSegments, duration); len(modelWeak) > 0 {
			weak = modelWeak
		}
		if modelStrong := SegmentsToInsights(outcome.cutPlan.StrongSegments, duration); len(modelStrong) > 0 {
			strong = modelStrong
		}
	}
	plan.WeakSegments = normalizeWeak(weak)
	plan.StrongSegments = normalizeStrong(strong)

	plan.PredictedAverageRetention = predictedRetention(selected, plan.WeakSegments, plan.StrongSegments, outcome)
	plan.ConfidencePercent, plan.ConfidenceLevel = confidenceEstimate(input, segments, outcome)

	plan.RetentionProtectionChanges = protectionChanges(plan.PacingAdjustments, outcome)
	plan.FinalSummary = finalSummary(selected, plan.PacingAdjustments, plan.PredictedAverageRetention, outcome)
	plan.TitleSuggestions = titleSuggestions(input, outcome)
	plan.ProvenanceNotes = notes
	return plan
}

func candidateByID(ranked []entities.HookCandidate, id string) (entities.HookCandidate, bool) {
	for _, c := range ranked {
		if c.ID == id && id != "" {
			return c, true
		}
	}
	return entities.HookCandidate{}, false
}

func rebuildComparison(ranked []entities.HookCandidate, selected entities.HookCandidate, rank *entities.ModelHookRankReply) entities.HookComparison {
	comparison := entities.HookComparison{SelectedID: selected.ID}
	for _, id := range rank.RunnerUps {
		if c, ok := candidateByID(ranked, id); ok && c.ID != selected.ID {
			comparison.RunnerUps = append(comparison.RunnerUps, entities.HookRunnerUp{
				ID:       c.ID,
				Start:    c.Start,
				Combined: c.Scores.Combined,
				Reason:   "ranked below the selected hook by the model",
			})
		}
		if len(comparison.RunnerUps) >= 3 {
			break
		}
	}
	return comparison
}

// heuristicInsights judges the weakest and strongest windows when the model
// offered none.
func heuristicInsights(windows []entities.TimelineWindow) (weak, strong []entities.SegmentRetentionInsight) {
	type scored struct {
		w    entities.TimelineWindow
		rank float64
	}
	byWeakness := make([]scored, 0, len(windows))
	for _, w := range windows {
		byWeakness = append(byWeakness, scored{w, windowWeakness(w)})
	}
	sort.SliceStable(byWeakness, func(i, j int) bool {
		if byWeakness[i].rank != byWeakness[j].rank {
			return byWeakness[i].rank > byWeakness[j].rank
		}
		return byWeakness[i].w.Start < byWeakness[j].w.Start
	})

	for i, s := range byWeakness {
		if i >= maxHeuristicInsights || s.rank < 0.55 {
			break
		}
		weak = append(weak, entities.SegmentRetentionInsight{
			Start:              s.w.Start,
			End:                s.w.End,
			PredictedRetention: clamp(90-s.rank*70, 8, 99),
			Reason:             describeWeakWindow(s.w),
			Fix:                fixForWindow(s.w),
		})
	}

	for i := len(byWeakness) - 1; i >= 0; i-- {
		s := byWeakness[i]
		if len(strong) >= maxHeuristicInsights || s.rank > 0.4 {
			break
		}
		strong = append(strong, entities.SegmentRetentionInsight{
			Start:              s.w.Start,
			End:                s.w.End,
			PredictedRetention: clamp(50+(1-s.rank)*48, 8, 99),
			Reason:             describeStrongWindow(s.w),
		})
	}
	sort.SliceStable(strong, func(i, j int) bool { return strong[i].Start < strong[j].Start })
	return weak, strong
}

func describeWeakWindow(w entities.TimelineWindow) string {
	var causes []string
	if w.Energy < 0.25 {
		causes = append(causes, "flat delivery")
	}
	if w.Motion < 0.3 {
		causes = append(causes, "little on-screen motion")
	}
	if w.WordsPerSecond < lowEnergyMaxWPS {
		causes = append(causes, "slow speech pace")
	}
	if w.FillerDensity > 0.3 {
		causes = append(causes, "heavy filler")
	}
	if len(causes) == 0 {
		causes = append(causes, "low overall engagement signals")
	}
	return strings.Join(causes, " and ")
}

func describeStrongWindow(w entities.TimelineWindow) string {
	var causes []string
	if w.Energy >= 0.3 {
		causes = append(causes, "energetic delivery")
	}
	if w.Motion >= 0.5 {
		causes = append(causes, "strong visual motion")
	}
	if len(causes) == 0 {
		causes = append(causes, "steady pacing and confident speech")
	}
	return strings.Join(causes, " and ")
}

func fixForWindow(w entities.TimelineWindow) string {
	if w.WordsPerSecond < lowEnergyMaxWPS && w.Motion < 0.3 {
		return "speed this stretch up or cut to b-roll"
	}
	if w.FillerDensity > 0.3 {
		return "tighten the wording and cut the filler"
	}
	return "trim the weakest sentences here"
}

// normalizeWeak rewrites weak narratives into the danger-zone template.
func normalizeWeak(insights []entities.SegmentRetentionInsight) []entities.SegmentRetentionInsight {
	out := make([]entities.SegmentRetentionInsight, 0, len(insights))
	for _, in := range insights {
		drop := clamp(100-in.PredictedRetention, 1, 92)
		fix := in.Fix
		if fix == "" {
			fix = "tighten this span"
		}
		reason := in.Reason
		if reason == "" {
			reason = "engagement signals sag here"
		}
		in.Reason = fmt.Sprintf("Danger zone - predicted %.0f%% drop-off because %s. Fix: %s", drop, reason, fix)
		in.Fix = fix
		out = append(out, in)
	}
	return out
}

// normalizeStrong rewrites strong narratives into the excellent template.
func normalizeStrong(insights []entities.SegmentRetentionInsight) []entities.SegmentRetentionInsight {
	out := make([]entities.SegmentRetentionInsight, 0, len(insights))
	for _, in := range insights {
		reason := in.Reason
		if reason == "" {
			reason = "sustained engagement signals"
		}
		in.Reason = fmt.Sprintf("Excellent - %.0f%% retention hold here due to %s", in.PredictedRetention, reason)
		in.Fix = ""
		out = append(out, in)
	}
	return out
}

// predictedRetention prefers the model estimate, otherwise derives one from
// the hook score and the insight balance.
func predictedRetention(selected entities.HookCandidate, weak, strong []entities.SegmentRetentionInsight, outcome *modelOutcome) float64 {
	if outcome != nil && outcome.cutPlan != nil && outcome.cutPlan.PredictedAverageRetentionPercent != nil {
		return clamp(*outcome.cutPlan.PredictedAverageRetentionPercent, 8, 99)
	}

	strongLift := 0.0
	if len(strong) > 0 {
		sum := 0.0
		for _, s := range strong {
			sum += s.PredictedRetention
		}
		strongLift = clamp01((sum/float64(len(strong)) - 50) / 50)
	}
	weakPenalty := 0.0
	if len(weak) > 0 {
		sum := 0.0
		for _, w := range weak {
			sum += w.PredictedRetention
		}
		weakPenalty = clamp01((50 - sum/float64(len(weak))) / 50)
	}

	estimate := retentionFallbackBase +
		retentionHookWeight*selected.Scores.Combined +
		retentionStrongWeight*strongLift -
		retentionWeakWeight*weakPenalty
	return clamp(estimate, retentionFallbackFloor, retentionFallbackCeil)
}

// confidenceEstimate blends transcript confidence, speech coverage, and scan
// quality, unless the model supplied its own estimate.
func confidenceEstimate(input entities.PlannerInput, segments []entities.TranscriptSignalSegment, outcome *modelOutcome) (float64, entities.ConfidenceLevel) {
	if outcome != nil && outcome.cutPlan != nil && outcome.cutPlan.ConfidencePercent != nil {
		percent := clamp(*outcome.cutPlan.ConfidencePercent, 1, 99)
		level := entities.ConfidenceLevel(strings.ToLower(outcome.cutPlan.ConfidenceLevel))
		switch level {
		case entities.ConfidenceLevelLow, entities.ConfidenceLevelMedium, entities.ConfidenceLevelHigh:
		default:
			level = entities.ConfidenceLevelFor(percent)
		}
		return percent, level
	}

	avgConf := defaultConfidence
	coverage := 0.0
	if len(segments) > 0 {
		sum := 0.0
		speech := 0.0
		for _, s := range segments {
			sum += s.Confidence
			speech += s.Duration
		}
		avgConf = sum / float64(len(segments))
		if input.Metadata.Duration > 0 {
			coverage = clamp01(speech / input.Metadata.Duration)
		}
	}
	scanQuality := clamp01(float64(input.FrameScan.SampledFrames) / 48)

	percent := clamp(34+42*avgConf+12*coverage+10*scanQuality, 8, 96)
	return percent, entities.ConfidenceLevelFor(percent)
}

// protectionChanges renders the change log, preferring the model's wording.
func protectionChanges(adjustments []entities.PacingAdjustment, outcome *modelOutcome) []string {
	if outcome != nil && outcome.cutPlan != nil && len(outcome.cutPlan.RetentionProtectionChanges) > 0 {
		return outcome.cutPlan.RetentionProtectionChanges
	}
	changes := make([]string, 0, len(adjustments))
	for _, a := range adjustments {
		switch a.Action {
		case entities.PacingActionTrim:
			changes = append(changes, fmt.Sprintf("trim %.1fs at %.1fs (%s)", a.SpanSeconds(), a.Start, a.Reason))
		case entities.PacingActionSpeedUp:
			changes = append(changes, fmt.Sprintf("speed up %.1fs at %.1fs to %.1fx (%s)", a.SpanSeconds(), a.Start, a.SpeedMultiplier, a.Reason))
		case entities.PacingActionTransitionBoost:
			changes = append(changes, fmt.Sprintf("transition emphasis at %.1fs (%s)", a.Start, a.Reason))
		}
	}
	return changes
}

func finalSummary(selected entities.HookCandidate, adjustments []entities.PacingAdjustment, retention float64, outcome *modelOutcome) string {
	if outcome != nil && outcome.cutPlan != nil && strings.TrimSpace(outcome.cutPlan.FinalSummary) != "" {
		return strings.TrimSpace(outcome.cutPlan.FinalSummary)
	}
	return fmt.Sprintf("Open on the %.1fs hook at %.1fs and apply %d pacing changes for a predicted %.0f%% average retention.",
		selected.Duration, selected.Start, len(adjustments), retention)
}

// titleSuggestions uses the model titles when present, otherwise five
// templated titles derived from the transcript excerpt and mode.
func titleSuggestions(input entities.PlannerInput, outcome *modelOutcome) []string {
	if outcome != nil && outcome.cutPlan != nil {
		titles := make([]string, 0, titleSuggestionCount)
		for _, t := range outcome.cutPlan.TitleOptions {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			titles = append(titles, t)
			if len(titles) >= titleSuggestionCount {
				break
			}
		}
		if len(titles) > 0 {
			return titles
		}
	}

	topic := excerptTopic(input.TranscriptExcerpt)
	format := "video"
	if input.Mode == "vertical" {
		format = "short"
	}
	return []string{
		fmt.Sprintf("%s (watch to the end)", topic),
		fmt.Sprintf("The truth about %s", strings.ToLower(topic)),
		fmt.Sprintf("%s in %d seconds", topic, int(input.Metadata.Duration)),
		fmt.Sprintf("Nobody tells you this about %s", strings.ToLower(topic)),
		fmt.Sprintf("Why this %s changes everything", format),
	}
}

// excerptTopic grabs the first few meaningful words of the excerpt as a
// title seed.
func excerptTopic(excerpt string) string {
	words := strings.Fields(strings.TrimSpace(excerpt))
	if len(words) == 0 {
		return "This moment"
	}
	if len(words) > 6 {
		words = words[:6]
	}
	topic := strings.Join(words, " ")
	topic = strings.TrimRight(topic, ".,!?;:")
	if topic == "" {
		return "This moment"
	}
	return strings.ToUpper(topic[:1]) + topic[1:]
}
