package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// PlanRepository defines the interface for edit-plan data access
type PlanRepository interface {
	// Create creates a new plan record
	Create(ctx context.Context, plan *entities.Plan) error

	// FindByID retrieves a plan by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)

	// FindLatestByVideo retrieves the most recent plan for a video
	FindLatestByVideo(ctx context.Context, videoID uuid.UUID) (*entities.Plan, error)

	// ListByVideo retrieves all plans for a video, newest first
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*entities.Plan, error)

	// Delete deletes a plan record
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanJobRepository defines the interface for async planning-job access
type PlanJobRepository interface {
	// Create enqueues a new planning job
	Create(ctx context.Context, job *entities.PlanJob) error

	// FindByID retrieves a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.PlanJob, error)

	// ClaimPending atomically claims up to limit pending jobs for processing.
	// A job is only returned to one caller.
	ClaimPending(ctx context.Context, limit int) ([]*entities.PlanJob, error)

	// MarkCompleted records a successful run and links the produced plan
	MarkCompleted(ctx context.Context, id uuid.UUID, planID uuid.UUID) error

	// MarkFailed records a failed run; the job returns to pending while
	// retry budget remains, otherwise it is parked as failed
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}
