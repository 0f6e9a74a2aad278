package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// VideoRepository defines the interface for video data access
type VideoRepository interface {
	// Create creates a new video record
	Create(ctx context.Context, video *entities.Video) error

	// FindByID retrieves a video by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Video, error)

	// FindByObjectKey retrieves a video by its storage object key
	FindByObjectKey(ctx context.Context, objectKey string) (*entities.Video, error)

	// List retrieves videos ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*entities.Video, error)

	// Update updates an existing video
	Update(ctx context.Context, video *entities.Video) error

	// UpdateStatus transitions a video to a new lifecycle status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.VideoStatus) error

	// Delete deletes a video record
	Delete(ctx context.Context, id uuid.UUID) error
}
