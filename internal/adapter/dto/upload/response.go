package upload

import (
	"time"

	"github.com/google/uuid"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// PresignResponse carries the presigned PUT URL for a direct upload
type PresignResponse struct {
	VideoID   uuid.UUID `json:"video_id"`
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresIn int       `json:"expires_in_seconds"`
}

// VideoResponse is one stored video record
type VideoResponse struct {
	ID          uuid.UUID            `json:"id"`
	ObjectKey   string               `json:"object_key"`
	Filename    string               `json:"filename"`
	Mode        string               `json:"mode"`
	Status      entities.VideoStatus `json:"status"`
	Duration    float64              `json:"duration,omitempty"`
	DownloadURL string               `json:"download_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// VideoFromEntity converts a video row into the response shape
func VideoFromEntity(v *entities.Video) VideoResponse {
	return VideoResponse{
		ID:        v.ID,
		ObjectKey: v.ObjectKey,
		Filename:  v.Filename,
		Mode:      v.Mode,
		Status:    v.Status,
		Duration:  v.Duration,
		CreatedAt: v.CreatedAt,
	}
}
