package upload

// PresignRequest asks for a presigned upload slot for one video file
type PresignRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Mode     string `json:"mode" validate:"omitempty,oneof=horizontal vertical"`
}

// ConfirmRequest marks an upload as finished so planning can start
type ConfirmRequest struct {
	VideoID string `json:"video_id" validate:"required,uuid4"`
}
