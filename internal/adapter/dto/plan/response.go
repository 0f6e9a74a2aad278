package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// PlanResponse is one stored edit plan with its full payload
type PlanResponse struct {
	ID        uuid.UUID         `json:"id"`
	VideoID   uuid.UUID         `json:"video_id"`
	Mode      string            `json:"mode"`
	Duration  float64           `json:"duration"`
	UsedModel bool              `json:"used_model"`
	Provider  string            `json:"provider,omitempty"`
	Model     string            `json:"model,omitempty"`
	Plan      entities.HookPlan `json:"plan"`
	CreatedAt time.Time         `json:"created_at"`
}

// FromEntity converts a plan row into the response shape
func FromEntity(p *entities.Plan) PlanResponse {
	return PlanResponse{
		ID:        p.ID,
		VideoID:   p.VideoID,
		Mode:      p.Mode,
		Duration:  p.Duration,
		UsedModel: p.UsedModel,
		Provider:  p.Provider,
		Model:     p.Model,
		Plan:      p.Payload.Data(),
		CreatedAt: p.CreatedAt,
	}
}

// JobResponse is the status of an async planning job
type JobResponse struct {
	JobID       uuid.UUID              `json:"job_id"`
	VideoID     uuid.UUID              `json:"video_id"`
	Status      entities.PlanJobStatus `json:"status"`
	PlanID      *uuid.UUID             `json:"plan_id,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	LastError   string                 `json:"last_error,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// JobFromEntity converts a job row into the response shape
func JobFromEntity(j *entities.PlanJob) JobResponse {
	resp := JobResponse{
		JobID:       j.ID,
		VideoID:     j.VideoID,
		Status:      j.Status,
		PlanID:      j.PlanID,
		RetryCount:  j.RetryCount,
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
	}
	if j.LastError != nil {
		resp.LastError = *j.LastError
	}
	return resp
}
