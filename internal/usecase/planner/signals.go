package planner

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	minSegmentSeconds = 0.1
	defaultConfidence = 0.72
)

var (
	wordTokenRe = regexp.MustCompile(`[A-Za-z0-9']+`)
	// trailing .!? optionally followed by closing quotes or brackets
	sentenceTerminalRe = regexp.MustCompile(`[.!?]["')\]]*\s*$`)
)

// fillerLexicon holds the phrases counted as verbal filler. Multi-word
// entries are matched as substrings of the lowercased text, single words as
// whole tokens.
var fillerLexicon = []string{
	"uh", "um", "uhh", "umm", "erm", "hmm",
	"you know", "i mean", "kind of", "sort of",
	"basically", "actually", "literally", "just like",
}

// hesitationMarkers are textual cues of a speaker stalling.
var hesitationMarkers = []string{"...", " - ", "--", "well,", "so,", "okay so"}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// NormalizeTranscript cleans raw transcript segments and annotates each with
// the speech signals the decision engine scores on. Segments are clamped into
// [0,duration], sub-0.1s slivers are dropped, and the result is sorted by
// start. Missing confidence defaults to 0.72. Never fails: malformed numeric
// input is coerced, not rejected.
func NormalizeTranscript(segments []entities.RawTranscriptSegment, duration float64) []entities.TranscriptSignalSegment {
	out := make([]entities.TranscriptSignalSegment, 0, len(segments))

	for _, raw := range segments {
		start := raw.Start
		end := raw.End
		if math.IsNaN(start) || math.IsInf(start, 0) {
			start = 0
		}
		if math.IsNaN(end) || math.IsInf(end, 0) {
			end = 0
		}
		start = clamp(start, 0, duration)
		end = clamp(end, 0, duration)
		if end-start < minSegmentSeconds {
			continue
		}

		text := strings.TrimSpace(raw.Text)
		lower := strings.ToLower(text)
		words := wordTokenRe.FindAllString(lower, -1)
		wordCount := len(words)

		conf := defaultConfidence
		if raw.Confidence != nil && !math.IsNaN(*raw.Confidence) {
			conf = clamp01(*raw.Confidence)
		}

		segDur := end - start
		wps := 0.0
		if segDur > 0 {
			wps = float64(wordCount) / segDur
		}

		fillers := countFillers(lower, words)
		fillerDensity := 0.0
		if wordCount > 0 {
			fillerDensity = clamp01(float64(fillers) / float64(wordCount))
		}

		seg := entities.TranscriptSignalSegment{
			Start:            start,
			End:              end,
			Duration:         segDur,
			Text:             text,
			WordCount:        wordCount,
			WordsPerSecond:   wps,
			Confidence:       conf,
			FillerCount:      fillers,
			FillerDensity:    fillerDensity,
			HesitationScore:  hesitationScore(lower, conf, fillerDensity, words),
			RepetitionScore:  repetitionScore(words),
			SentenceTerminal: sentenceTerminalRe.MatchString(text),
		}
		out = append(out, seg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// countFillers counts hits against the filler lexicon. Single-word entries
// must match a full token so "um" does not fire inside "umbrella".
func countFillers(lower string, words []string) int {
	count := 0
	for _, phrase := range fillerLexicon {
		if strings.Contains(phrase, " ") {
			count += strings.Count(lower, phrase)
			continue
		}
		for _, w := range words {
			if w == phrase {
				count++
			}
		}
	}
	return count
}

// hesitationScore blends low confidence, filler density, stall markers and
// immediate word repeats into one stalling signal in [0,1].
func hesitationScore(lower string, conf, fillerDensity float64, words []string) float64 {
	score := 0.42*(1-conf) + 0.42*clamp01(fillerDensity*2.5)

	markerHits := 0
	for _, m := range hesitationMarkers {
		markerHits += strings.Count(lower, m)
	}
	score += clamp01(float64(markerHits)*0.12) * 0.16

	if hasImmediateRepeat(words) {
		score += 0.08
	}
	return clamp01(score)
}

// hasImmediateRepeat reports whether any word appears twice in a row, a
// common stutter pattern ("i i think").
func hasImmediateRepeat(words []string) bool {
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			return true
		}
	}
	return false
}

// repetitionScore is the ratio of repeated word bigrams to a scaled word
// count. Short or empty segments score zero.
func repetitionScore(words []string) float64 {
	if len(words) < 4 {
		return 0
	}
	seen := make(map[string]int, len(words))
	repeated := 0
	for i := 0; i+1 < len(words); i++ {
		bigram := words[i] + " " + words[i+1]
		seen[bigram]++
		if seen[bigram] == 2 {
			repeated++
		}
	}
	return clamp01(float64(repeated) / (float64(len(words)) * 0.45))
}

// NormalizeFrameScan clamps every scan signal into [0,1] and restricts motion
// peaks to timestamps inside the video, sorted ascending. A scan that never
// ran degrades to the scanner's own neutral fallback payload.
func NormalizeFrameScan(scan entities.FrameScan, duration float64) entities.FrameScan {
	if scanAbsent(scan) {
		return entities.FrameScan{PortraitSignal: 0.5, LandscapeSignal: 0.5}
	}
	out := scan
	out.PortraitSignal = clampSignal(scan.PortraitSignal)
	out.LandscapeSignal = clampSignal(scan.LandscapeSignal)
	out.CenteredFaceVerticalSignal = clampSignal(scan.CenteredFaceVerticalSignal)
	out.HorizontalMotionSignal = clampSignal(scan.HorizontalMotionSignal)
	out.HighMotionShortClipSignal = clampSignal(scan.HighMotionShortClipSignal)

	peaks := make([]float64, 0, len(scan.MotionPeaks))
	for _, p := range scan.MotionPeaks {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		if p < 0 || p > duration {
			continue
		}
		peaks = append(peaks, p)
	}
	sort.Float64s(peaks)
	out.MotionPeaks = peaks
	return out
}

// scanAbsent reports whether the frame scanner produced nothing at all
func scanAbsent(scan entities.FrameScan) bool {
	return scan.SampledFrames == 0 &&
		scan.PortraitSignal == 0 && scan.LandscapeSignal == 0 &&
		scan.CenteredFaceVerticalSignal == 0 && scan.HorizontalMotionSignal == 0 &&
		scan.HighMotionShortClipSignal == 0 && len(scan.MotionPeaks) == 0
}

func clampSignal(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return clamp01(v)
}

// NormalizeInput applies both normalizers and coerces metadata defaults.
// Duration is forced positive so downstream math never divides by zero.
func NormalizeInput(input entities.PlannerInput) (entities.PlannerInput, []entities.TranscriptSignalSegment) {
	out := input
	if math.IsNaN(out.Metadata.Duration) || out.Metadata.Duration <= 0 {
		out.Metadata.Duration = 1
	}
	if out.Mode != "vertical" {
		out.Mode = "horizontal"
	}
	out.FrameScan = NormalizeFrameScan(out.FrameScan, out.Metadata.Duration)
	segs := NormalizeTranscript(out.TranscriptSegments, out.Metadata.Duration)
	return out, segs
}
