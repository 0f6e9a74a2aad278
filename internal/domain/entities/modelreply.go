package entities

// The model layer returns free-form JSON. These structs are the tagged
// intermediate representation it is parsed into: every numeric field is a
// pointer so "absent" and "zero" stay distinguishable, and the planner applies
// the same clamping rules it uses on its own heuristics before trusting any
// value.

// ModelCut is one pacing operation proposed by the model.
type ModelCut struct {
	StartSec        *float64 `json:"start_sec"`
	EndSec          *float64 `json:"end_sec"`
	Action          string   `json:"action"`
	Intensity       *float64 `json:"intensity"`
	SpeedMultiplier *float64 `json:"speed_multiplier"`
	Reason          string   `json:"reason"`
}

// ModelSegment is a weak or strong segment judgment from the model.
type ModelSegment struct {
	StartSec                  *float64 `json:"start_sec"`
	EndSec                    *float64 `json:"end_sec"`
	PredictedRetentionPercent *float64 `json:"predicted_retention_percent"`
	Reason                    string   `json:"reason"`
	Fix                       string   `json:"fix"`
}

// ModelCutPlanReply is the cut-plan response shape the prompt asks for.
type ModelCutPlanReply struct {
	Cuts                             []ModelCut     `json:"cuts"`
	WeakSegments                     []ModelSegment `json:"weak_segments"`
	StrongSegments                   []ModelSegment `json:"strong_segments"`
	PredictedAverageRetentionPercent *float64       `json:"predicted_average_retention_percent"`
	ConfidencePercent                *float64       `json:"confidence_percent"`
	ConfidenceLevel                  string         `json:"confidence_level"`
	RetentionProtectionChanges       []string       `json:"retention_protection_changes"`
	FinalSummary                     string         `json:"final_summary"`
	TitleOptions                     []string       `json:"title_options"`
}

// ModelHookRankReply is the hook-ranking response shape the prompt asks for.
type ModelHookRankReply struct {
	RankedIDs   []string `json:"ranked_ids"`
	SelectedID  string   `json:"selected_id"`
	RunnerUps   []string `json:"runner_ups"`
	EligibleIDs []string `json:"eligible_ids"`
}
