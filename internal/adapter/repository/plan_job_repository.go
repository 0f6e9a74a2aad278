package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// PlanJobRepository handles async planning-job data operations
type PlanJobRepository struct {
	db *gorm.DB
}

// NewPlanJobRepository creates a new plan job repository
func NewPlanJobRepository(db *gorm.DB) *PlanJobRepository {
	return &PlanJobRepository{db: db}
}

// Create enqueues a new planning job
func (r *PlanJobRepository) Create(ctx context.Context, job *entities.PlanJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by ID
func (r *PlanJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.PlanJob, error) {
	var job entities.PlanJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ClaimPending atomically claims up to limit pending jobs. Each candidate is
// flipped pending -> processing with a conditional update, so two workers
// polling at once never claim the same job.
func (r *PlanJobRepository) ClaimPending(ctx context.Context, limit int) ([]*entities.PlanJob, error) {
	if limit <= 0 {
		limit = 1
	}

	var candidates []*entities.PlanJob
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.PlanJobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	claimed := make([]*entities.PlanJob, 0, len(candidates))
	for _, job := range candidates {
		res := r.db.WithContext(ctx).
			Model(&entities.PlanJob{}).
			Where("id = ? AND status = ?", job.ID, entities.PlanJobStatusPending).
			Updates(map[string]interface{}{
				"status":     entities.PlanJobStatusProcessing,
				"started_at": now,
			})
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected == 0 {
			// another worker beat us to this one
			continue
		}
		job.Status = entities.PlanJobStatusProcessing
		job.StartedAt = &now
		claimed = append(claimed, job)
	}
	return claimed, nil
}

// MarkCompleted records a successful run and links the produced plan
func (r *PlanJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, planID uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&entities.PlanJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.PlanJobStatusCompleted,
			"plan_id":      planID,
			"completed_at": now,
			"last_error":   nil,
		}).Error
}

// MarkFailed records a failed run. While retry budget remains the job goes
// back to pending; otherwise it is parked as failed.
func (r *PlanJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	var job entities.PlanJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return err
	}

	status := entities.PlanJobStatusPending
	retries := job.RetryCount + 1
	if retries >= job.MaxRetries {
		status = entities.PlanJobStatusFailed
	}

	return r.db.WithContext(ctx).
		Model(&entities.PlanJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"retry_count": retries,
			"last_error":  reason,
		}).Error
}
