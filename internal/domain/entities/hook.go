package entities

// HookSource identifies how a hook candidate was generated
type HookSource string

const (
	HookSourceMotionPeak    HookSource = "motion_peak"
	HookSourceTranscript    HookSource = "transcript"
	HookSourceIntroFallback HookSource = "intro_fallback"
)

// HookScores holds the per-signal and combined scores of a candidate,
// each in [0,1].
type HookScores struct {
	Motion     float64 `json:"motion"`
	Audio      float64 `json:"audio"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	LLM        float64 `json:"llm"`
	Combined   float64 `json:"combined"`
}

// HookCandidate is one candidate opening window for the video.
type HookCandidate struct {
	ID       string     `json:"id"`
	Start    float64    `json:"start"`
	End      float64    `json:"end"`
	Duration float64    `json:"duration"`
	Excerpt  string     `json:"excerpt"`
	Source   HookSource `json:"source"`
	Scores   HookScores `json:"scores"`
}

// HookRunnerUp records a near-miss candidate in the hook comparison.
type HookRunnerUp struct {
	ID       string  `json:"id"`
	Start    float64 `json:"start"`
	Combined float64 `json:"combined"`
	Reason   string  `json:"reason"`
}

// HookComparison explains why the selected hook won over the runner-ups.
type HookComparison struct {
	SelectedID string         `json:"selected_id"`
	RunnerUps  []HookRunnerUp `json:"runner_ups"`
}
