package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PlanJobStatus represents the status of a plan generation job
type PlanJobStatus string

const (
	PlanJobStatusPending    PlanJobStatus = "pending"    // Waiting for a worker
	PlanJobStatusProcessing PlanJobStatus = "processing" // Claimed by a worker
	PlanJobStatusCompleted  PlanJobStatus = "completed"  // Plan stored
	PlanJobStatusFailed     PlanJobStatus = "failed"     // Gave up after retries
)

// PlanJobMetadata stores additional metadata for plan jobs
type PlanJobMetadata struct {
	DurationSeconds  float64                `json:"duration_seconds,omitempty"`
	SegmentCount     int                    `json:"segment_count,omitempty"`
	MotionPeakCount  int                    `json:"motion_peak_count,omitempty"`
	UsedModel        bool                   `json:"used_model,omitempty"`
	ProcessingTimeMs int64                  `json:"processing_time_ms,omitempty"`
	ErrorDetails     map[string]interface{} `json:"error_details,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (m *PlanJobMetadata) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &m)
}

// Value implements driver.Valuer interface for GORM
func (m PlanJobMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// PlanJob represents one queued plan generation request. The raw planner
// input is kept with the job so a worker can run it without refetching.
type PlanJob struct {
	ID      uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoID uuid.UUID     `json:"video_id" gorm:"type:uuid;not null;index"`
	Status  PlanJobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	Input   PlannerInput  `json:"input" gorm:"type:jsonb;serializer:json"`
	PlanID  *uuid.UUID    `json:"plan_id,omitempty" gorm:"type:uuid;index"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	Metadata PlanJobMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (PlanJob) TableName() string {
	return "plan_jobs"
}

// NewPlanJob creates a pending plan job for a video
func NewPlanJob(videoID uuid.UUID, input PlannerInput) *PlanJob {
	return &PlanJob{
		ID:         uuid.New(),
		VideoID:    videoID,
		Status:     PlanJobStatusPending,
		Input:      input,
		RetryCount: 0,
		MaxRetries: 3,
		Metadata: PlanJobMetadata{
			DurationSeconds: input.Metadata.Duration,
			SegmentCount:    len(input.TranscriptSegments),
			MotionPeakCount: len(input.FrameScan.MotionPeaks),
		},
	}
}
