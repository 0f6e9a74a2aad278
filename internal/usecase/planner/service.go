package planner

import (
	"context"

	"go.uber.org/zap"

	"github.com/vibecut/autoeditor/internal/domain/entities"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
	"github.com/vibecut/autoeditor/pkg/config"
)

// FlagModelEnabled gates the model enrichment path at runtime without a
// redeploy.
const FlagModelEnabled = "planner.model_enabled"

// Outcome is the result of one planning call plus its provenance.
type Outcome struct {
	Plan      entities.HookPlan
	UsedModel bool
	Provider  string
	Model     string
}

// Service produces edit plans from planner input
type Service interface {
	// Plan runs the full pipeline. The heuristic path cannot fail on
	// well-formed input; a caller-level timeout on ctx bounds the model
	// enrichment path.
	Plan(ctx context.Context, input entities.PlannerInput) (*Outcome, error)
}

type plannerService struct {
	cfg    config.PlannerConfig
	ladder *QueryLadder
	flags  repositories.FlagRepository
	logger *zap.Logger
}

// NewService creates the planner service. ladder and flags may be nil, which
// disables the model path.
func NewService(cfg config.PlannerConfig, ladder *QueryLadder, flags repositories.FlagRepository, logger *zap.Logger) Service {
	return &plannerService{
		cfg:    cfg,
		ladder: ladder,
		flags:  flags,
		logger: logger,
	}
}

func (s *plannerService) Plan(ctx context.Context, input entities.PlannerInput) (*Outcome, error) {
	input, segments := NormalizeInput(input)

	if s.logger != nil {
		s.logger.Info("🎬 planning edit",
			zap.String("mode", input.Mode),
			zap.Float64("duration", input.Metadata.Duration),
			zap.Int("segments", len(segments)),
			zap.Int("motion_peaks", len(input.FrameScan.MotionPeaks)))
	}

	windows := BuildWindows(input.Metadata.Duration, segments, input.FrameScan)
	candidates := GenerateHookCandidates(input, segments)
	ranked := RankHooks(candidates)
	selected, comparison := SelectHook(ranked)

	raw := DerivePacingAdjustments(input, segments, windows)
	adjustments := ReconcileAdjustments(raw, input, segments, windows)

	outcome := s.queryModel(ctx, input, windows, ranked, adjustments)
	plan := AssemblePlan(input, segments, windows, ranked, selected, comparison, adjustments, outcome)

	result := &Outcome{Plan: plan}
	if outcome != nil && (outcome.cutPlan != nil || outcome.hookRank != nil) {
		result.UsedModel = true
		result.Provider = outcome.provider
		result.Model = outcome.model
	}

	if s.logger != nil {
		s.logger.Info("✅ plan assembled",
			zap.String("hook", plan.HookComparison.SelectedID),
			zap.Int("adjustments", len(plan.PacingAdjustments)),
			zap.Float64("predicted_retention", plan.PredictedAverageRetention),
			zap.Bool("used_model", result.UsedModel))
	}
	return result, nil
}

// modelPathEnabled consults the runtime flag, falling back to static config
// when the flag store is absent or failing.
func (s *plannerService) modelPathEnabled(ctx context.Context) bool {
	if !s.cfg.ModelEnabled || s.ladder == nil {
		return false
	}
	if s.flags == nil {
		return true
	}
	enabled, err := s.flags.GetBool(ctx, FlagModelEnabled, true)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("flag lookup failed, keeping model path on", zap.Error(err))
		}
		return true
	}
	return enabled
}

// queryModel runs the enrichment prompts through the fallback ladder.
// Returns nil when the model path is off; exhaustion still yields an outcome
// carrying the prompts for audit.
func (s *plannerService) queryModel(
	ctx context.Context,
	input entities.PlannerInput,
	windows []entities.TimelineWindow,
	ranked []entities.HookCandidate,
	adjustments []entities.PacingAdjustment,
) *modelOutcome {
	if !s.modelPathEnabled(ctx) {
		return nil
	}

	prompts := []NamedPrompt{
		{Name: promptNameCutPlan, Prompt: BuildCutPlanPrompt(input, windows, adjustments)},
		{Name: promptNameHookRank, Prompt: BuildHookRankPrompt(input, ranked)},
	}

	queryCtx := ctx
	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	results := s.ladder.QueryBatch(queryCtx, prompts)

	outcome := &modelOutcome{}
	for _, p := range prompts {
		outcome.prompts = append(outcome.prompts, entities.PlanPrompt{Name: p.Name, Text: p.Prompt})
	}

	for _, res := range results {
		if !res.OK {
			if s.logger != nil {
				s.logger.Warn("⚠️ model query exhausted, keeping heuristics",
					zap.String("prompt", res.Name),
					zap.Int("attempts", res.Attempts),
					zap.Int("status", res.Status),
					zap.String("reason", res.Reason))
			}
			outcome.notes = append(outcome.notes, "model query for "+res.Name+" exhausted, heuristic output kept")
			continue
		}

		switch res.Name {
		case promptNameCutPlan:
			reply, err := ParseCutPlanReply(res.JSON)
			if err != nil {
				outcome.notes = append(outcome.notes, "cut plan reply unparsable, heuristic pacing kept")
				continue
			}
			outcome.cutPlan = reply
		case promptNameHookRank:
			reply, err := ParseHookRankReply(res.JSON)
			if err != nil {
				outcome.notes = append(outcome.notes, "hook rank reply unparsable, heuristic hook kept")
				continue
			}
			outcome.hookRank = reply
		}
		outcome.provider = res.Provider
		outcome.model = res.Model
	}
	return outcome
}
