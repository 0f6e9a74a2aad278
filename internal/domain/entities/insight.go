package entities

// SegmentRetentionInsight is a weak ("danger zone") or strong ("excellent")
// judgment of one timeline span. PredictedRetention is a percentage in [8,99].
type SegmentRetentionInsight struct {
	Start              float64 `json:"start"`
	End                float64 `json:"end"`
	PredictedRetention float64 `json:"predicted_retention"`
	Reason             string  `json:"reason"`
	Fix                string  `json:"fix,omitempty"`
}
