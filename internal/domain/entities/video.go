package entities

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus tracks a source video through the pipeline
type VideoStatus string

const (
	VideoStatusUploading VideoStatus = "uploading"
	VideoStatusReady     VideoStatus = "ready"
	VideoStatusPlanned   VideoStatus = "planned"
)

// Video is a stored source video. The bytes live in object storage under
// ObjectKey; only metadata is kept here.
type Video struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ObjectKey string      `json:"object_key" gorm:"type:varchar(512);not null;uniqueIndex"`
	Filename  string      `json:"filename" gorm:"type:varchar(255)"`
	Mode      string      `json:"mode" gorm:"type:varchar(20)"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Duration  float64     `json:"duration"`
	FPS       float64     `json:"fps"`
	Status    VideoStatus `json:"status" gorm:"type:varchar(20);default:'uploading'"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Video) TableName() string {
	return "videos"
}

// NewVideo creates a video row in uploading state
func NewVideo(objectKey, filename, mode string) *Video {
	return &Video{
		ID:        uuid.New(),
		ObjectKey: objectKey,
		Filename:  filename,
		Mode:      mode,
		Status:    VideoStatusUploading,
	}
}
