package planner

import (
	"testing"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"bare array", `[1, 2, 3]`, `[1, 2, 3]`, true},
		{"prose wrapped", "Sure! Here is the plan:\n{\"a\": 1}\nLet me know.", `{"a": 1}`, true},
		{"fenced block", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"array in prose", "the list is [1, 2] as requested", `[1, 2]`, true},
		{"no json at all", "I cannot help with that.", "", false},
		{"broken braces", "here { not json", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractJSON(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: ExtractJSON(%q) = (%q, %v), want (%q, %v)", tc.name, tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseCutPlanReply(t *testing.T) {
	doc := `{
		"cuts": [{"start_sec": 5, "end_sec": 7, "action": "trim", "reason": "dead air"}],
		"predicted_average_retention_percent": 58,
		"confidence_level": "high"
	}`
	reply, err := ParseCutPlanReply(doc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(reply.Cuts) != 1 || *reply.Cuts[0].StartSec != 5 {
		t.Fatalf("cuts not decoded: %+v", reply.Cuts)
	}
	if reply.PredictedAverageRetentionPercent == nil || *reply.PredictedAverageRetentionPercent != 58 {
		t.Fatal("retention pointer not decoded")
	}
	if reply.ConfidencePercent != nil {
		t.Fatal("absent numeric field must stay nil")
	}

	if _, err := ParseCutPlanReply(`{"cuts": "not a list"}`); err == nil {
		t.Fatal("expected decode error for mistyped field")
	}
}

func TestCutsToAdjustments_FiltersAndClamps(t *testing.T) {
	metadata := entities.VideoMetadata{Duration: 60, FPS: 30}
	cuts := []entities.ModelCut{
		{StartSec: floatPtr(10), EndSec: floatPtr(12), Action: "trim", Reason: "keep"},
		{StartSec: floatPtr(20), EndSec: floatPtr(22), Action: "jump_cut", Reason: "unknown action"},
		{StartSec: nil, EndSec: floatPtr(30), Action: "trim", Reason: "missing start"},
		{StartSec: floatPtr(40), EndSec: floatPtr(40.1), Action: "trim", Reason: "too short"},
		{StartSec: floatPtr(-5), EndSec: floatPtr(2), Action: "speed_up", SpeedMultiplier: floatPtr(9), Intensity: floatPtr(7)},
		{StartSec: floatPtr(50), EndSec: floatPtr(120), Action: "trim", Reason: "end clamped"},
	}
	out := CutsToAdjustments(cuts, metadata)
	if len(out) != 3 {
		t.Fatalf("expected 3 surviving cuts, got %d: %+v", len(out), out)
	}

	speedUp := out[1]
	if speedUp.Action != entities.PacingActionSpeedUp {
		t.Fatalf("expected speed_up second, got %s", speedUp.Action)
	}
	if speedUp.Start != 0 {
		t.Fatalf("negative start must clamp to 0, got %v", speedUp.Start)
	}
	if speedUp.SpeedMultiplier != speedMultiplierMax {
		t.Fatalf("multiplier must clamp to %v, got %v", speedMultiplierMax, speedUp.SpeedMultiplier)
	}
	if speedUp.Intensity != 1 {
		t.Fatalf("intensity must clamp to 1, got %v", speedUp.Intensity)
	}

	last := out[2]
	if last.End > 60 {
		t.Fatalf("end must clamp inside the video, got %v", last.End)
	}
	for _, a := range out {
		assertEvenFrame(t, a.Start, 30)
		assertEvenFrame(t, a.End, 30)
	}
}

func TestCutsToAdjustments_Cap(t *testing.T) {
	metadata := entities.VideoMetadata{Duration: 600, FPS: 30}
	var cuts []entities.ModelCut
	for i := 0; i < 30; i++ {
		start := float64(i * 20)
		end := start + 2
		cuts = append(cuts, entities.ModelCut{StartSec: &start, EndSec: &end, Action: "trim"})
	}
	out := CutsToAdjustments(cuts, metadata)
	if len(out) != maxFinalAdjustments {
		t.Fatalf("expected cap at %d, got %d", maxFinalAdjustments, len(out))
	}
}

func TestSegmentsToInsights(t *testing.T) {
	segments := []entities.ModelSegment{
		{StartSec: floatPtr(10), EndSec: floatPtr(20), PredictedRetentionPercent: floatPtr(150), Reason: "over the top"},
		{StartSec: floatPtr(30), EndSec: floatPtr(35), Reason: "no retention given"},
		{StartSec: floatPtr(50), EndSec: floatPtr(45), Reason: "inverted span"},
		{StartSec: nil, EndSec: floatPtr(5), Reason: "missing start"},
	}
	out := SegmentsToInsights(segments, 60)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving insights, got %d", len(out))
	}
	if out[0].PredictedRetention != 99 {
		t.Fatalf("retention must clamp to 99, got %v", out[0].PredictedRetention)
	}
	if out[1].PredictedRetention != 50 {
		t.Fatalf("absent retention must default to 50, got %v", out[1].PredictedRetention)
	}
}
