package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// PlanRepository handles edit-plan data operations
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create creates a new plan record
func (r *PlanRepository) Create(ctx context.Context, plan *entities.Plan) error {
	if plan == nil {
		return errors.New("plan cannot be nil")
	}
	return r.db.WithContext(ctx).Create(plan).Error
}

// FindByID retrieves a plan by ID
func (r *PlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	var plan entities.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// FindLatestByVideo retrieves the most recent plan for a video
func (r *PlanRepository) FindLatestByVideo(ctx context.Context, videoID uuid.UUID) (*entities.Plan, error) {
	var plan entities.Plan
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListByVideo retrieves all plans for a video, newest first
func (r *PlanRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*entities.Plan, error) {
	var plans []*entities.Plan
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// Delete deletes a plan record
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Plan{}).Error
}
