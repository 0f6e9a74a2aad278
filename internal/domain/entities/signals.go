package entities

// VideoMetadata holds the probed properties of a source video
type VideoMetadata struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"` // seconds
	FPS      float64 `json:"fps"`
}

// FrameScan mirrors the JSON payload emitted by the frame-scanner process.
// All signals are in [0,1]; MotionPeaks are timestamps in seconds, ascending.
type FrameScan struct {
	SampledFrames              int       `json:"sampledFrames"`
	SampleStride               int       `json:"sampleStride"`
	PortraitSignal             float64   `json:"portraitSignal"`
	LandscapeSignal            float64   `json:"landscapeSignal"`
	CenteredFaceVerticalSignal float64   `json:"centeredFaceVerticalSignal"`
	HorizontalMotionSignal     float64   `json:"horizontalMotionSignal"`
	HighMotionShortClipSignal  float64   `json:"highMotionShortClipSignal"`
	MotionPeaks                []float64 `json:"motionPeaks"`
}

// RawTranscriptSegment is one speech segment as produced by the
// speech-to-text process. Confidence is nil when the model did not report one.
type RawTranscriptSegment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// PlannerInput is the full input contract of the hook planner.
type PlannerInput struct {
	Mode               string                 `json:"mode"` // horizontal | vertical
	Metadata           VideoMetadata          `json:"metadata"`
	FrameScan          FrameScan              `json:"frameScan"`
	TranscriptSegments []RawTranscriptSegment `json:"transcriptSegments"`
	TranscriptExcerpt  string                 `json:"transcriptExcerpt"`
}

// TranscriptSignalSegment is a transcript segment annotated with the speech
// signals the decision engine scores on. Derived, one per surviving input
// segment, sorted ascending by Start.
type TranscriptSignalSegment struct {
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Duration         float64 `json:"duration"`
	Text             string  `json:"text"`
	WordCount        int     `json:"word_count"`
	WordsPerSecond   float64 `json:"words_per_second"`
	Confidence       float64 `json:"confidence"`
	FillerCount      int     `json:"filler_count"`
	FillerDensity    float64 `json:"filler_density"`
	HesitationScore  float64 `json:"hesitation_score"`
	RepetitionScore  float64 `json:"repetition_score"`
	SentenceTerminal bool    `json:"sentence_terminal"`
}

// TimelineWindow is a fixed-stride slice of the timeline carrying aggregated
// transcript and motion metrics for its span.
type TimelineWindow struct {
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Text           string  `json:"text"`
	WordsPerSecond float64 `json:"words_per_second"`
	Energy         float64 `json:"energy"`
	Motion         float64 `json:"motion"`
	Confidence     float64 `json:"confidence"`
	FillerDensity  float64 `json:"filler_density"`
}
