package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vibecut/autoeditor/internal/domain/entities"
)

const (
	hookTargetSeconds  = 8.0
	hookPeakLead       = 2.1
	maxHookCandidates  = 18
	maxPeakCandidates  = 10
	maxTranscriptCands = 28
	transcriptMinHype  = 0.22
	transcriptEarlySec = 12.0
	hookDedupeStep     = 0.5

	// Tie-break thresholds favoring an early opener over a marginally
	// higher-scoring later candidate. Empirically tuned, kept as named
	// constants rather than re-derived.
	trueZeroStartSec    = 1.2
	trueZeroScoreRatio  = 0.84
	earlyStartSec       = 3.2
	earlyScoreRatio     = 0.90
	lateTopThresholdSec = 3.5
)

// positiveLexicon and negativeLexicon feed the sentiment score.
var positiveLexicon = []string{
	"love", "great", "awesome", "easy", "win", "best", "perfect",
	"beautiful", "fun", "excited", "amazing", "simple", "works",
}

var negativeLexicon = []string{
	"hate", "bad", "hard", "boring", "fail", "worst", "broken",
	"problem", "wrong", "annoying", "confusing",
}

// GenerateHookCandidates builds up to 18 deduplicated hook candidates from
// motion peaks, energetic transcript openings, and one guaranteed intro
// fallback, each scored and ready for ranking.
func GenerateHookCandidates(input entities.PlannerInput, segments []entities.TranscriptSignalSegment) []entities.HookCandidate {
	duration := input.Metadata.Duration
	peaks := input.FrameScan.MotionPeaks

	type protoCandidate struct {
		start, end float64
		source     entities.HookSource
	}
	var protos []protoCandidate

	for i, peak := range peaks {
		if i >= maxPeakCandidates {
			break
		}
		start := math.Max(0, peak-hookPeakLead)
		protos = append(protos, protoCandidate{start, hookEnd(start, duration), entities.HookSourceMotionPeak})
	}

	considered := 0
	for _, seg := range segments {
		if considered >= maxTranscriptCands {
			break
		}
		considered++
		if transcriptEnergy(seg.Text, seg.WordsPerSecond) < transcriptMinHype && seg.Start > transcriptEarlySec {
			continue
		}
		start := math.Max(0, seg.Start-0.35)
		protos = append(protos, protoCandidate{start, hookEnd(start, duration), entities.HookSourceTranscript})
	}

	// intro fallback is mandatory so a hook always exists
	protos = append(protos, protoCandidate{0, hookEnd(0, duration), entities.HookSourceIntroFallback})

	seen := make(map[string]bool, len(protos))
	candidates := make([]entities.HookCandidate, 0, maxHookCandidates)
	for _, p := range protos {
		if len(candidates) >= maxHookCandidates {
			break
		}
		key := fmt.Sprintf("%.1f:%.1f", roundToStep(p.start, hookDedupeStep), roundToStep(p.end, hookDedupeStep))
		if seen[key] {
			continue
		}
		seen[key] = true

		cand := entities.HookCandidate{
			ID:       fmt.Sprintf("hook_%d", len(candidates)+1),
			Start:    p.start,
			End:      p.end,
			Duration: p.end - p.start,
			Excerpt:  excerptFor(p.start, p.end, segments),
			Source:   p.source,
		}
		cand.Scores = scoreCandidate(cand, input, segments)
		candidates = append(candidates, cand)
	}
	return candidates
}

func hookEnd(start, duration float64) float64 {
	return math.Min(start+hookTargetSeconds, duration)
}

func roundToStep(v, step float64) float64 {
	return math.Round(v/step) * step
}

func excerptFor(start, end float64, segments []entities.TranscriptSignalSegment) string {
	var parts []string
	for _, seg := range segments {
		if seg.End <= start || seg.Start >= end {
			continue
		}
		parts = append(parts, seg.Text)
	}
	return truncate(strings.Join(parts, " "), windowTextCap)
}

// scoreCandidate computes the per-signal scores and the combined rank:
// 0.36*motion + 0.28*audio + 0.16*sentiment + 0.18*confidence
// + faceCenterBoost(<=0.08) + openerBias(0.08 when start<=2.5s)
// - fillerPenalty(<=0.25), clamped to [0,1].
func scoreCandidate(c entities.HookCandidate, input entities.PlannerInput, segments []entities.TranscriptSignalSegment) entities.HookScores {
	var (
		confSum   float64
		fillerSum float64
		wordCount int
		overlap   int
	)
	for _, seg := range segments {
		if seg.End <= c.Start || seg.Start >= c.End {
			continue
		}
		confSum += seg.Confidence
		fillerSum += seg.FillerDensity
		wordCount += seg.WordCount
		overlap++
	}

	confidence := defaultConfidence
	fillerDensity := 0.0
	if overlap > 0 {
		confidence = confSum / float64(overlap)
		fillerDensity = fillerSum / float64(overlap)
	}

	wps := 0.0
	if c.Duration > 0 {
		wps = float64(wordCount) / c.Duration
	}

	scores := entities.HookScores{
		Motion:     motionScoreAt((c.Start+c.End)/2, input.FrameScan.MotionPeaks),
		Audio:      transcriptEnergy(c.Excerpt, wps),
		Sentiment:  sentimentScore(c.Excerpt),
		Confidence: clamp01(confidence),
	}

	combined := 0.36*scores.Motion + 0.28*scores.Audio + 0.16*scores.Sentiment + 0.18*scores.Confidence
	combined += math.Min(0.08, input.FrameScan.CenteredFaceVerticalSignal*0.08)
	if c.Start <= 2.5 {
		combined += 0.08
	}
	combined -= math.Min(0.25, fillerDensity*0.55)

	scores.Combined = clamp01(combined)
	return scores
}

// sentimentScore is a crude polarity estimate over the excerpt, mapped into
// [0,1] with 0.5 as neutral.
func sentimentScore(text string) float64 {
	words := wordTokenRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return 0.5
	}
	balance := 0
	for _, w := range words {
		for _, p := range positiveLexicon {
			if w == p {
				balance++
				break
			}
		}
		for _, n := range negativeLexicon {
			if w == n {
				balance--
				break
			}
		}
	}
	return clamp01(0.5 + float64(balance)/float64(len(words))*3)
}

// RankHooks sorts candidates by combined score descending, breaking exact
// ties by earlier start so ranking is deterministic.
func RankHooks(candidates []entities.HookCandidate) []entities.HookCandidate {
	ranked := make([]entities.HookCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Scores.Combined != ranked[j].Scores.Combined {
			return ranked[i].Scores.Combined > ranked[j].Scores.Combined
		}
		return ranked[i].Start < ranked[j].Start
	})
	return ranked
}

// SelectHook picks the winning hook from a ranked list. The top score wins
// unless a near-top candidate opens the video: a candidate starting within
// 1.2s scoring at least 84% of the top, or one starting within 3.2s scoring
// at least 90% of the top when the top itself starts after 3.5s. Viewer
// immediacy beats marginal score gains.
func SelectHook(ranked []entities.HookCandidate) (entities.HookCandidate, entities.HookComparison) {
	if len(ranked) == 0 {
		return entities.HookCandidate{}, entities.HookComparison{}
	}

	top := ranked[0]
	selected := top
	reason := "highest combined score"

	for _, c := range ranked[1:] {
		if c.Start <= trueZeroStartSec && c.Scores.Combined >= top.Scores.Combined*trueZeroScoreRatio {
			selected = c
			reason = "opens at the very start with a near-top score"
			break
		}
		if top.Start > lateTopThresholdSec && c.Start <= earlyStartSec && c.Scores.Combined >= top.Scores.Combined*earlyScoreRatio {
			selected = c
			reason = "early-timeline opener preferred over a late higher scorer"
			break
		}
	}

	comparison := entities.HookComparison{SelectedID: selected.ID}
	for _, c := range ranked {
		if c.ID == selected.ID {
			continue
		}
		if len(comparison.RunnerUps) >= 3 {
			break
		}
		runnerReason := "lower combined score"
		if c.ID == top.ID {
			runnerReason = "top score but " + reason
		}
		comparison.RunnerUps = append(comparison.RunnerUps, entities.HookRunnerUp{
			ID:       c.ID,
			Start:    c.Start,
			Combined: c.Scores.Combined,
			Reason:   runnerReason,
		})
	}
	return selected, comparison
}
