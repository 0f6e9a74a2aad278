package plan

import (
	"github.com/vibecut/autoeditor/internal/domain/entities"
)

// MetadataRequest mirrors the probed video properties
type MetadataRequest struct {
	Width    int     `json:"width" validate:"gte=0"`
	Height   int     `json:"height" validate:"gte=0"`
	Duration float64 `json:"duration" validate:"gt=0"`
	FPS      float64 `json:"fps" validate:"gte=0"`
}

// GenerateRequest asks for an edit plan over the supplied signals. The frame
// scan and transcript come from the external scanner and speech-to-text
// processes; the API passes them through to the planner untouched.
type GenerateRequest struct {
	VideoID            string                          `json:"video_id" validate:"required,uuid4"`
	Mode               string                          `json:"mode" validate:"omitempty,oneof=horizontal vertical"`
	Metadata           MetadataRequest                 `json:"metadata" validate:"required"`
	FrameScan          entities.FrameScan              `json:"frameScan"`
	TranscriptSegments []entities.RawTranscriptSegment `json:"transcriptSegments"`
	TranscriptExcerpt  string                          `json:"transcriptExcerpt"`

	// Async enqueues a background job instead of planning inline
	Async bool `json:"async"`
}

// ToPlannerInput converts the request into the planner input contract
func (r *GenerateRequest) ToPlannerInput() entities.PlannerInput {
	return entities.PlannerInput{
		Mode: r.Mode,
		Metadata: entities.VideoMetadata{
			Width:    r.Metadata.Width,
			Height:   r.Metadata.Height,
			Duration: r.Metadata.Duration,
			FPS:      r.Metadata.FPS,
		},
		FrameScan:          r.FrameScan,
		TranscriptSegments: r.TranscriptSegments,
		TranscriptExcerpt:  r.TranscriptExcerpt,
	}
}
