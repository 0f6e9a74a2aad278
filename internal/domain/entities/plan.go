package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConfidenceLevel buckets a confidence percentage
type ConfidenceLevel string

const (
	ConfidenceLevelLow    ConfidenceLevel = "low"
	ConfidenceLevelMedium ConfidenceLevel = "medium"
	ConfidenceLevelHigh   ConfidenceLevel = "high"
)

// ConfidenceLevelFor maps a confidence percentage to its level:
// low below 52, medium below 75, high at 75 and above.
func ConfidenceLevelFor(percent float64) ConfidenceLevel {
	switch {
	case percent < 52:
		return ConfidenceLevelLow
	case percent < 75:
		return ConfidenceLevelMedium
	default:
		return ConfidenceLevelHigh
	}
}

// PlanPrompt records one prompt sent to the model layer, kept for audit.
type PlanPrompt struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// HookPlan is the assembled edit plan for one video.
type HookPlan struct {
	SelectedHook               *HookCandidate            `json:"selected_hook"`
	RankedHooks                []HookCandidate           `json:"ranked_hooks"`
	PacingAdjustments          []PacingAdjustment        `json:"pacing_adjustments"`
	HookComparison             HookComparison            `json:"hook_comparison"`
	WeakSegments               []SegmentRetentionInsight `json:"weak_segments"`
	StrongSegments             []SegmentRetentionInsight `json:"strong_segments"`
	PredictedAverageRetention  float64                   `json:"predicted_average_retention_percent"`
	ConfidencePercent          float64                   `json:"confidence_percent"`
	ConfidenceLevel            ConfidenceLevel           `json:"confidence_level"`
	RetentionProtectionChanges []string                  `json:"retention_protection_changes"`
	FinalSummary               string                    `json:"final_summary"`
	TitleSuggestions           []string                  `json:"title_suggestions"`
	ProvenanceNotes            []string                  `json:"provenance_notes"`
	Prompts                    []PlanPrompt              `json:"prompts"`
}

// Plan is the stored plan row. The full HookPlan payload is kept as JSONB so
// the API can return exactly what the planner produced.
type Plan struct {
	ID        uuid.UUID                     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoID   uuid.UUID                     `json:"video_id" gorm:"type:uuid;not null;index"`
	Mode      string                        `json:"mode" gorm:"type:varchar(20)"`
	Duration  float64                       `json:"duration"`
	Payload   datatypes.JSONType[HookPlan]  `json:"payload" gorm:"type:jsonb"`
	UsedModel bool                          `json:"used_model" gorm:"default:false"`
	Provider  string                        `json:"provider,omitempty" gorm:"type:varchar(60)"`
	Model     string                        `json:"model,omitempty" gorm:"type:varchar(120)"`
	CreatedAt time.Time                     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time                     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Plan) TableName() string {
	return "plans"
}

// NewPlan creates a plan row for a video
func NewPlan(videoID uuid.UUID, mode string, duration float64, payload HookPlan) *Plan {
	return &Plan{
		ID:       uuid.New(),
		VideoID:  videoID,
		Mode:     mode,
		Duration: duration,
		Payload:  datatypes.NewJSONType(payload),
	}
}
