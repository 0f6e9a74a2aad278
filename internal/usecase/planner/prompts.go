package planner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	promptNameCutPlan  = "cut_plan"
	promptNameHookRank = "hook_rank"
)

// BuildCutPlanPrompt renders the pacing-refinement prompt: a compact digest
// of the timeline plus the heuristic draft, with the exact JSON shape the
// reply must use. Replies that ignore the shape are discarded by the parser.
func BuildCutPlanPrompt(input entities.PlannerInput, windows []entities.TimelineWindow, adjustments []entities.PacingAdjustment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a short-form video editor. A %s video runs %.1fs at %.0fx%.0f.\n",
		input.Mode, input.Metadata.Duration, float64(input.Metadata.Width), float64(input.Metadata.Height))
	fmt.Fprintf(&b, "Transcript excerpt: %q\n\n", truncate(input.TranscriptExcerpt, 600))

	b.WriteString("Timeline windows (start-end | energy | motion | confidence | words/s):\n")
	for _, w := range windows {
		fmt.Fprintf(&b, "- %.1f-%.1f | %.2f | %.2f | %.2f | %.2f\n", w.Start, w.End, w.Energy, w.Motion, w.Confidence, w.WordsPerSecond)
	}

	b.WriteString("\nDraft pacing adjustments:\n")
	for _, a := range adjustments {
		fmt.Fprintf(&b, "- %.2f-%.2f %s (intensity %.2f): %s\n", a.Start, a.End, a.Action, a.Intensity, a.Reason)
	}

	b.WriteString(`
Refine the cut plan for maximum viewer retention. Reply with ONLY a JSON object shaped exactly like this example:
{
  "cuts": [{"start_sec": 12.4, "end_sec": 14.0, "action": "trim", "intensity": 0.6, "speed_multiplier": 1.4, "reason": "dead air"}],
  "weak_segments": [{"start_sec": 30.0, "end_sec": 38.0, "predicted_retention_percent": 41, "reason": "slow explanation", "fix": "tighten"}],
  "strong_segments": [{"start_sec": 0.0, "end_sec": 8.0, "predicted_retention_percent": 88, "reason": "strong hook"}],
  "predicted_average_retention_percent": 62,
  "confidence_percent": 70,
  "confidence_level": "medium",
  "retention_protection_changes": ["trimmed 1.7s of silence at 14s"],
  "final_summary": "One sentence on the overall edit.",
  "title_options": ["Title A", "Title B", "Title C", "Title D", "Title E"]
}
Actions must be one of trim, speed_up, transition_boost. All times in seconds within the video.
`)
	return b.String()
}

// BuildHookRankPrompt renders the hook-ranking prompt over the scored
// candidates.
func BuildHookRankPrompt(input entities.PlannerInput, ranked []entities.HookCandidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rank opening hooks for a %s video of %.1fs. Viewers decide in the first seconds, so earlier and punchier wins.\n\nCandidates:\n",
		input.Mode, input.Metadata.Duration)
	for _, c := range ranked {
		fmt.Fprintf(&b, "- %s: %.1f-%.1fs (%s, combined %.2f) %q\n", c.ID, c.Start, c.End, c.Source, c.Scores.Combined, truncate(c.Excerpt, 120))
	}

	b.WriteString(`
Reply with ONLY a JSON object shaped exactly like this example:
{
  "ranked_ids": ["hook_2", "hook_1", "hook_5"],
  "selected_id": "hook_2",
  "runner_ups": ["hook_1", "hook_5"],
  "eligible_ids": ["hook_1", "hook_2", "hook_5"]
}
Use only the candidate ids listed above.
`)
	return b.String()
}

// truncate caps s at max bytes without splitting a multi-byte rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
