package entities

// PacingAction is the kind of timeline operation an adjustment applies
type PacingAction string

const (
	PacingActionTrim            PacingAction = "trim"
	PacingActionSpeedUp         PacingAction = "speed_up"
	PacingActionTransitionBoost PacingAction = "transition_boost"
)

// PacingAdjustment is one timeline operation over a span.
// Intensity is clamped to [0.05,1]; SpeedMultiplier is only meaningful for
// speed_up actions and lies in [1.2,1.8].
type PacingAdjustment struct {
	Start           float64      `json:"start"`
	End             float64      `json:"end"`
	Action          PacingAction `json:"action"`
	Intensity       float64      `json:"intensity"`
	SpeedMultiplier float64      `json:"speed_multiplier,omitempty"`
	Reason          string       `json:"reason"`
}

// SpanSeconds returns the length of the adjusted span.
func (a PacingAdjustment) SpanSeconds() float64 {
	return a.End - a.Start
}
