package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// VideoRepository handles video data operations
type VideoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create creates a new video record
func (r *VideoRepository) Create(ctx context.Context, video *entities.Video) error {
	if video == nil {
		return errors.New("video cannot be nil")
	}
	return r.db.WithContext(ctx).Create(video).Error
}

// FindByID retrieves a video by ID
func (r *VideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	var video entities.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

// FindByObjectKey retrieves a video by its storage object key
func (r *VideoRepository) FindByObjectKey(ctx context.Context, objectKey string) (*entities.Video, error) {
	var video entities.Video
	if err := r.db.WithContext(ctx).Where("object_key = ?", objectKey).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

// List retrieves videos ordered by creation time, newest first
func (r *VideoRepository) List(ctx context.Context, limit, offset int) ([]*entities.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var videos []*entities.Video
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// Update updates an existing video
func (r *VideoRepository) Update(ctx context.Context, video *entities.Video) error {
	if video == nil {
		return errors.New("video cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("id = ?", video.ID).
		Save(video).Error
}

// UpdateStatus transitions a video to a new lifecycle status
func (r *VideoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.VideoStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete deletes a video record
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Video{}).Error
}
