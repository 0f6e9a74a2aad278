package planner

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vibecut/autoeditor/internal/domain/entities"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
	"github.com/vibecut/autoeditor/pkg/ai"
	"github.com/vibecut/autoeditor/pkg/config"
)

// scenarioInput48s is a talking-head clip with one long silence, one
// filler-heavy stretch and sparse motion.
func scenarioInput48s() entities.PlannerInput {
	conf := func(v float64) *float64 { return &v }
	return entities.PlannerInput{
		Mode:     "horizontal",
		Metadata: entities.VideoMetadata{Width: 1920, Height: 1080, Duration: 48, FPS: 30},
		FrameScan: entities.FrameScan{
			SampledFrames: 48,
			SampleStride:  30,
			MotionPeaks:   []float64{2.0, 22.0, 44.0},
		},
		TranscriptSegments: []entities.RawTranscriptSegment{
			{Start: 0.5, End: 4.0, Text: "Wait until you see this amazing trick!", Confidence: conf(0.92)},
			{Start: 4.2, End: 8.5, Text: "Here is how it works step by step.", Confidence: conf(0.90)},
			{Start: 8.7, End: 14.3, Text: "First you set everything up carefully and check it twice.", Confidence: conf(0.88)},
			{Start: 16.0, End: 20.5, Text: "Now the interesting part begins for real.", Confidence: conf(0.90)},
			{Start: 20.7, End: 25.0, Text: "This part is honestly the best bit of the whole build.", Confidence: conf(0.90)},
			{Start: 25.2, End: 27.2, Text: "um uh you know i mean basically um yeah", Confidence: conf(0.55)},
			{Start: 27.5, End: 33.0, Text: "Then you tighten the last screws and test it.", Confidence: conf(0.90)},
			{Start: 33.2, End: 40.0, Text: "The result came out better than I expected it to.", Confidence: conf(0.90)},
			{Start: 40.2, End: 47.5, Text: "And that is the whole thing. Thanks for watching!", Confidence: conf(0.90)},
		},
		TranscriptExcerpt: "Wait until you see this amazing trick",
	}
}

func heuristicService() Service {
	cfg := config.PlannerConfig{ModelEnabled: false}
	return NewService(cfg, nil, nil, nil)
}

func TestPlan_Deterministic(t *testing.T) {
	svc := heuristicService()

	first, err := svc.Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	second, err := svc.Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("second plan failed: %v", err)
	}

	a, _ := json.Marshal(first.Plan)
	b, _ := json.Marshal(second.Plan)
	if string(a) != string(b) {
		t.Fatal("identical input must produce byte-identical plans")
	}
	if first.UsedModel {
		t.Fatal("heuristic-only service must not report model usage")
	}
}

func TestPlan_SpanAndScoreValidity(t *testing.T) {
	svc := heuristicService()
	input := scenarioInput48s()
	out, err := svc.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	plan := out.Plan
	duration := input.Metadata.Duration

	if len(plan.PacingAdjustments) == 0 {
		t.Fatal("expected at least one pacing adjustment")
	}
	if len(plan.PacingAdjustments) > maxFinalAdjustments {
		t.Fatalf("adjustment cap exceeded: %d", len(plan.PacingAdjustments))
	}
	for i, a := range plan.PacingAdjustments {
		if a.Start < 0 || a.End > duration+1e-9 || a.Start >= a.End {
			t.Fatalf("adjustment %d has invalid span [%v,%v]", i, a.Start, a.End)
		}
		if a.SpanSeconds() < minAlignedSpan-1e-9 {
			t.Fatalf("adjustment %d span %.3fs below minimum", i, a.SpanSeconds())
		}
		if a.Intensity < 0.05-1e-9 || a.Intensity > 1+1e-9 {
			t.Fatalf("adjustment %d intensity %v out of range", i, a.Intensity)
		}
		if a.Action == entities.PacingActionSpeedUp {
			if a.SpeedMultiplier < speedMultiplierMin-1e-9 || a.SpeedMultiplier > speedMultiplierMax+1e-9 {
				t.Fatalf("adjustment %d multiplier %v out of range", i, a.SpeedMultiplier)
			}
		}
		assertEvenFrame(t, a.Start, input.Metadata.FPS)
		assertEvenFrame(t, a.End, input.Metadata.FPS)
	}

	for _, c := range plan.RankedHooks {
		if c.Start < 0 || c.End > duration || c.Start >= c.End {
			t.Fatalf("hook %s has invalid span [%v,%v]", c.ID, c.Start, c.End)
		}
		if c.Scores.Combined < 0 || c.Scores.Combined > 1 {
			t.Fatalf("hook %s combined score %v out of [0,1]", c.ID, c.Scores.Combined)
		}
	}

	if plan.PredictedAverageRetention < retentionFallbackFloor || plan.PredictedAverageRetention > retentionFallbackCeil {
		t.Fatalf("predicted retention %v outside heuristic bounds", plan.PredictedAverageRetention)
	}
	if plan.ConfidencePercent < 8 || plan.ConfidencePercent > 96 {
		t.Fatalf("confidence %v outside heuristic bounds", plan.ConfidencePercent)
	}
	if plan.ConfidenceLevel != entities.ConfidenceLevelFor(plan.ConfidencePercent) {
		t.Fatalf("confidence level %q does not match percent %v", plan.ConfidenceLevel, plan.ConfidencePercent)
	}
	if len(plan.TitleSuggestions) != titleSuggestionCount {
		t.Fatalf("expected %d title suggestions, got %d", titleSuggestionCount, len(plan.TitleSuggestions))
	}
	if plan.FinalSummary == "" {
		t.Fatal("final summary missing")
	}
}

func TestPlan_DeadAirAndFillerScenario(t *testing.T) {
	svc := heuristicService()
	out, err := svc.Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	var gapTrim, fillerCut bool
	for _, a := range out.Plan.PacingAdjustments {
		if a.Action == entities.PacingActionTrim && math.Abs(a.Start-14.3) <= 0.2 && a.End <= 16.2 {
			gapTrim = true
		}
		if a.Start < 27.2 && a.End > 25.2 && a.Action == entities.PacingActionTrim {
			fillerCut = true
		}
	}
	if !gapTrim {
		t.Fatalf("no trim found over the 14.3-16.0s silence: %+v", out.Plan.PacingAdjustments)
	}
	if !fillerCut {
		t.Fatalf("no trim found over the filler stretch at 25.2-27.2s: %+v", out.Plan.PacingAdjustments)
	}
}

func TestPlan_EmptySignalsStillYieldsAPlan(t *testing.T) {
	svc := heuristicService()
	input := entities.PlannerInput{
		Mode:     "vertical",
		Metadata: entities.VideoMetadata{Duration: 10, FPS: 30},
	}
	out, err := svc.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	plan := out.Plan
	if plan.SelectedHook == nil {
		t.Fatal("a hook must always be selected")
	}
	if plan.SelectedHook.Source != entities.HookSourceIntroFallback {
		t.Fatalf("signal-free input must select the intro fallback, got %s", plan.SelectedHook.Source)
	}
	if plan.SelectedHook.Start != 0 {
		t.Fatalf("intro fallback must start at 0, got %v", plan.SelectedHook.Start)
	}
	if len(plan.PacingAdjustments) == 0 {
		t.Fatal("adjustments must never be empty")
	}
}

func TestPlan_EnergeticOpenerWinsOverLatePeak(t *testing.T) {
	conf := 0.93
	input := entities.PlannerInput{
		Mode:     "horizontal",
		Metadata: entities.VideoMetadata{Duration: 40, FPS: 30},
		FrameScan: entities.FrameScan{
			SampledFrames: 40,
			MotionPeaks:   []float64{30.0},
		},
		TranscriptSegments: []entities.RawTranscriptSegment{
			{Start: 0.2, End: 5.0, Text: "Stop! This insane hack will win you the best result instantly!", Confidence: &conf},
			{Start: 28.0, End: 34.0, Text: "and here it finally pays off", Confidence: &conf},
		},
	}
	svc := heuristicService()
	out, err := svc.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if out.Plan.SelectedHook == nil || out.Plan.SelectedHook.Start != 0 {
		t.Fatalf("the zero-start opener must win, got %+v", out.Plan.SelectedHook)
	}
}

// promptRouter answers the two planning prompts with fixed JSON documents.
type promptRouter struct {
	cutPlanJSON  string
	hookRankJSON string
}

func (p *promptRouter) Name() string { return "stub" }

func (p *promptRouter) Reachable(_ context.Context) bool { return true }

func (p *promptRouter) Complete(_ context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if strings.Contains(req.Prompt, "Refine the cut plan") {
		return &ai.CompletionResponse{Text: p.cutPlanJSON}, nil
	}
	return &ai.CompletionResponse{Text: p.hookRankJSON}, nil
}

func modelService(client ai.Client, flags repositories.FlagRepository) Service {
	cfg := config.PlannerConfig{
		ModelEnabled: true,
		MaxRetries:   2,
		BackoffBase:  time.Millisecond,
		BatchWidth:   2,
		MaxTokens:    512,
	}
	ladder := &QueryLadder{
		cfg: cfg,
		providers: func(_ context.Context) []ProviderSpec {
			return []ProviderSpec{{Client: client, Models: []string{"test-model"}}}
		},
		sleep:  func(time.Duration) {},
		jitter: func() time.Duration { return 0 },
	}
	return NewService(cfg, ladder, flags, nil)
}

func TestPlan_ModelOverridesHeuristics(t *testing.T) {
	client := &promptRouter{
		cutPlanJSON: `{
			"cuts": [{"start_sec": 10.0, "end_sec": 12.0, "action": "trim", "intensity": 0.6, "reason": "model cut"}],
			"predicted_average_retention_percent": 63,
			"confidence_percent": 71,
			"confidence_level": "medium",
			"final_summary": "Tight edit with one big cut.",
			"title_options": ["Model Title A", "Model Title B"]
		}`,
		hookRankJSON: `{"selected_id": "hook_1", "runner_ups": []}`,
	}
	svc := modelService(client, nil)

	out, err := svc.Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !out.UsedModel {
		t.Fatal("model path should be reported as used")
	}
	if out.Provider != "stub" || out.Model != "test-model" {
		t.Fatalf("provenance lost: %s/%s", out.Provider, out.Model)
	}

	plan := out.Plan
	if len(plan.PacingAdjustments) != 1 || plan.PacingAdjustments[0].Reason != "model cut" {
		t.Fatalf("model cuts must replace the heuristic list: %+v", plan.PacingAdjustments)
	}
	assertEvenFrame(t, plan.PacingAdjustments[0].Start, 30)
	assertEvenFrame(t, plan.PacingAdjustments[0].End, 30)

	if plan.PredictedAverageRetention != 63 {
		t.Fatalf("model retention estimate ignored: %v", plan.PredictedAverageRetention)
	}
	if plan.ConfidencePercent != 71 || plan.ConfidenceLevel != entities.ConfidenceLevelMedium {
		t.Fatalf("model confidence ignored: %v %s", plan.ConfidencePercent, plan.ConfidenceLevel)
	}
	if plan.FinalSummary != "Tight edit with one big cut." {
		t.Fatalf("model summary ignored: %q", plan.FinalSummary)
	}
	if len(plan.TitleSuggestions) != 2 || plan.TitleSuggestions[0] != "Model Title A" {
		t.Fatalf("model titles ignored: %v", plan.TitleSuggestions)
	}
	if plan.HookComparison.SelectedID != "hook_1" {
		t.Fatalf("model hook selection ignored: %s", plan.HookComparison.SelectedID)
	}
	if len(plan.Prompts) != 2 {
		t.Fatalf("both prompts must be kept for audit, got %d", len(plan.Prompts))
	}
}

func TestPlan_UnknownModelHookIDKeepsHeuristicChoice(t *testing.T) {
	client := &promptRouter{
		cutPlanJSON:  `{"cuts": []}`,
		hookRankJSON: `{"selected_id": "hook_999"}`,
	}
	svc := modelService(client, nil)

	heuristic, err := heuristicService().Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("heuristic plan failed: %v", err)
	}
	out, err := svc.Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if out.Plan.HookComparison.SelectedID != heuristic.Plan.HookComparison.SelectedID {
		t.Fatalf("unknown model id must not change the selection: %s vs %s",
			out.Plan.HookComparison.SelectedID, heuristic.Plan.HookComparison.SelectedID)
	}
	// an empty cut list keeps the heuristic adjustments as well
	if len(out.Plan.PacingAdjustments) != len(heuristic.Plan.PacingAdjustments) {
		t.Fatal("empty model cut list must keep the heuristic adjustments")
	}
}

// staticFlags is a FlagRepository stub with a fixed answer.
type staticFlags struct{ value bool }

func (f *staticFlags) GetBool(_ context.Context, _ string, _ bool) (bool, error) {
	return f.value, nil
}

func (f *staticFlags) SetBool(_ context.Context, _ string, _ bool) error { return nil }

func TestPlan_FlagDisablesModelPath(t *testing.T) {
	client := &promptRouter{
		cutPlanJSON:  `{"cuts": [{"start_sec": 10.0, "end_sec": 12.0, "action": "trim", "reason": "model cut"}]}`,
		hookRankJSON: `{"selected_id": "hook_1"}`,
	}
	svc := modelService(client, &staticFlags{value: false})

	out, err := svc.Plan(context.Background(), scenarioInput48s())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if out.UsedModel {
		t.Fatal("a false flag must keep the model path off")
	}
	for _, a := range out.Plan.PacingAdjustments {
		if a.Reason == "model cut" {
			t.Fatal("model output leaked past a disabled flag")
		}
	}
}
