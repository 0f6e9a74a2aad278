package planner

import (
	"math"
	"testing"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

func TestBuildWindows_StrideAndCoverage(t *testing.T) {
	duration := 180.0
	windows := BuildWindows(duration, nil, entities.FrameScan{})
	if len(windows) == 0 {
		t.Fatal("no windows built")
	}
	if len(windows) > maxWindows {
		t.Fatalf("window cap exceeded: %d", len(windows))
	}

	stride := clamp(duration/18, windowStrideMin, windowStrideMax)
	if got := windows[0].End - windows[0].Start; math.Abs(got-stride) > 1e-9 {
		t.Fatalf("first window span %v, want stride %v", got, stride)
	}
	// consecutive windows overlap by 12% of the stride
	for i := 1; i < len(windows); i++ {
		if windows[i].Start >= windows[i-1].End {
			t.Fatalf("windows %d and %d do not overlap", i-1, i)
		}
		if windows[i].Start <= windows[i-1].Start {
			t.Fatalf("window starts not ascending at %d", i)
		}
	}
	last := windows[len(windows)-1]
	if last.End > duration {
		t.Fatalf("last window runs past the video: %v", last.End)
	}
}

func TestBuildWindows_CapOnLongVideos(t *testing.T) {
	windows := BuildWindows(3600, nil, entities.FrameScan{})
	if len(windows) != maxWindows {
		t.Fatalf("hour-long video should hit the %d-window cap, got %d", maxWindows, len(windows))
	}
}

func TestBuildWindows_DegenerateDuration(t *testing.T) {
	windows := BuildWindows(0.05, nil, entities.FrameScan{})
	if len(windows) != 1 {
		t.Fatalf("degenerate input must still yield one window, got %d", len(windows))
	}
}

func TestBuildWindows_AggregatesSegments(t *testing.T) {
	conf := 0.8
	segments := NormalizeTranscript([]entities.RawTranscriptSegment{
		{Start: 1, End: 5, Text: "This is an insane trick!", Confidence: &conf},
		{Start: 5.5, End: 9, Text: "um you know just normal talk", Confidence: &conf},
	}, 60)
	windows := BuildWindows(60, segments, entities.FrameScan{MotionPeaks: []float64{4}})

	first := windows[0]
	if first.WordsPerSecond <= 0 {
		t.Fatal("first window should carry speech")
	}
	if first.Confidence != 0.8 {
		t.Fatalf("window confidence should average the segments, got %v", first.Confidence)
	}
	if first.Motion <= 0 {
		t.Fatal("window near a motion peak must have a positive motion score")
	}
	if first.Energy <= 0 {
		t.Fatal("hype lexicon hit should give the window energy")
	}
}

func TestTranscriptEnergy(t *testing.T) {
	flat := transcriptEnergy("we continue with the setup here", 1.5)
	hype := transcriptEnergy("This insane hack is the best! Wait, what?!", 3.2)
	if flat < 0 || flat > 1 || hype < 0 || hype > 1 {
		t.Fatalf("energy out of [0,1]: flat=%v hype=%v", flat, hype)
	}
	if hype <= flat {
		t.Fatalf("hype text must out-score flat text: %v vs %v", hype, flat)
	}
}

func TestMotionScoreAt(t *testing.T) {
	peaks := []float64{10}
	if got := motionScoreAt(10, peaks); got != 1 {
		t.Fatalf("score at the peak itself must be 1, got %v", got)
	}
	if got := motionScoreAt(100, peaks); got != 0 {
		t.Fatalf("score far from any peak must be 0, got %v", got)
	}
	if motionScoreAt(12, peaks) >= motionScoreAt(11, peaks) {
		t.Fatal("score must decay with distance")
	}
	if got := motionScoreAt(5, nil); got != 0 {
		t.Fatalf("no peaks means no motion, got %v", got)
	}
}
