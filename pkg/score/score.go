// Package score implements pronunciation scoring for spoken phrases.
//
// A caller supplies a target phrase and the text a speech-to-text provider
// heard. Both are normalized ([Normalize]), optionally run through a pluggable
// phonetic [Transcriber], and compared with Levenshtein edit distance
// ([EditDistance]). The distance is converted to a similarity ratio relative
// to the length of the normalized reference, a per-word alignment picks out
// the most-mismatched spoken word, and a qualitative feedback band is
// selected from the similarity ([Band]).
//
// The similarity ratio deliberately divides by the REFERENCE length rather
// than the longer of the two strings. A spoken phrase much longer than the
// target can therefore drive the ratio negative. This asymmetry is part of
// the scoring contract that phrase decks were tuned against; do not "fix" it.
//
// All functions are pure and all types are safe for concurrent use — an
// [Evaluator] is read-only after construction and allocates only local
// working storage per call.
package score

import (
	"math"
	"strings"
)

// Transcriber converts a normalized phrase into an alternate representation
// before edit-distance comparison. It is the extension point for phonetic
// encodings (see the phonetic subpackage); the default is [Identity].
//
// A Transcriber receives text already processed by [Normalize] and must be a
// pure function. It must not change the number of space-separated words,
// otherwise the per-word worst-match alignment degrades.
type Transcriber func(normalized string) string

// Identity is the default [Transcriber]: it returns its input unchanged.
func Identity(normalized string) string { return normalized }

// Option is a functional option for configuring an [Evaluator].
type Option func(*Evaluator)

// WithTranscriber sets the phonetic [Transcriber] applied after normalization
// and before scoring. Default: [Identity].
func WithTranscriber(t Transcriber) Option {
	return func(e *Evaluator) {
		if t != nil {
			e.transcribe = t
		}
	}
}

// WithBandThresholds overrides the similarity thresholds for the
// [BandExcellent] and [BandGood] feedback bands. Both bounds are inclusive.
// Defaults: 0.90 and 0.75.
func WithBandThresholds(excellent, good float64) Option {
	return func(e *Evaluator) {
		e.excellentAt = excellent
		e.goodAt = good
	}
}

// Evaluator scores spoken phrases against target phrases. The zero value is
// not usable; construct one with [New]. Safe for concurrent use.
type Evaluator struct {
	transcribe  Transcriber
	excellentAt float64
	goodAt      float64
}

// New returns an [Evaluator] configured with the supplied options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		transcribe:  Identity,
		excellentAt: defaultExcellentThreshold,
		goodAt:      defaultGoodThreshold,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Similarity returns the similarity of candidate to reference in the
// (unbounded above by construction, usually [0,1]) ratio
//
//	1 - EditDistance(ref, cand) / len(ref)
//
// where both strings have been normalized and transcribed, and len(ref) is
// the rune length of the processed reference.
//
// Degenerate inputs are guarded rather than faulting: when the processed
// reference is empty the result is 1.0 if the candidate is also empty and
// 0.0 otherwise.
func (e *Evaluator) Similarity(reference, candidate string) float64 {
	ref := e.transcribe(Normalize(reference))
	cand := e.transcribe(Normalize(candidate))
	return ratio(ref, cand)
}

// WorstWord returns the spoken word that matched its positional counterpart
// in the reference worst, and whether such a word exists.
//
// Both processed phrases are split on single spaces and paired up
// positionally up to the shorter word count; trailing unpaired words in
// either phrase are ignored. Each pair is scored with the same
// reference-length ratio as [Evaluator.Similarity]. The minimum is tracked
// with strict less-than, so ties keep the earliest word. The returned word is
// the CANDIDATE's — the report should show what the speaker actually said.
//
// ok is false when either phrase has no words to pair.
func (e *Evaluator) WorstWord(reference, candidate string) (word string, ok bool) {
	word, _, ok = e.worstWord(
		e.transcribe(Normalize(reference)),
		e.transcribe(Normalize(candidate)),
	)
	return word, ok
}

// Evaluate runs the full scoring pipeline and returns a [Report]. It is a
// total function over any pair of strings; degenerate inputs (empty after
// normalization) follow the guard rules described on [Evaluator.Similarity].
func (e *Evaluator) Evaluate(reference, candidate string) *Report {
	ref := e.transcribe(Normalize(reference))
	cand := e.transcribe(Normalize(candidate))

	sim := ratio(ref, cand)
	band := e.band(sim)

	r := &Report{
		Reference:  reference,
		Candidate:  candidate,
		Similarity: sim,
		Percentage: percentage(sim),
		Band:       band,
		Message:    band.Message(),
	}

	// The worst-word line is only worth showing when some pair actually
	// mismatched.
	if word, worstSim, ok := e.worstWord(ref, cand); ok && worstSim < 1.0 {
		r.WorstWord = word
	}

	return r
}

// band maps a similarity value to its feedback band. Thresholds are
// inclusive at the lower bound of each band.
func (e *Evaluator) band(sim float64) Band {
	switch {
	case sim >= e.excellentAt:
		return BandExcellent
	case sim >= e.goodAt:
		return BandGood
	default:
		return BandTryAgain
	}
}

// worstWord scores positional word pairs of the already-processed phrases and
// returns the candidate word with the lowest pair similarity.
func (e *Evaluator) worstWord(ref, cand string) (word string, sim float64, ok bool) {
	// Split on single spaces, not Fields: normalization preserves internal
	// whitespace runs, and the pairing must see the same word positions the
	// original scorer saw.
	refWords := splitWords(ref)
	candWords := splitWords(cand)

	n := min(len(refWords), len(candWords))

	worst := math.Inf(1)
	worstIdx := -1
	for i := 0; i < n; i++ {
		// Whitespace runs split into empty words. They carry no
		// pronunciation content, and an empty candidate word winning the
		// worst slot would collide with the "no worst word" sentinel, so
		// pairs touching one are not scored.
		if refWords[i] == "" || candWords[i] == "" {
			continue
		}
		if s := ratio(refWords[i], candWords[i]); s < worst {
			worst = s
			worstIdx = i
		}
	}

	if worstIdx < 0 {
		return "", 0, false
	}
	return candWords[worstIdx], worst, true
}

// ratio is the asymmetric similarity ratio shared by whole-phrase and
// per-word scoring: 1 - distance/len(ref), with len(ref) in runes.
// An empty ref would divide by zero; the guard defines the result as 1.0
// for an exact (empty) match and 0.0 otherwise.
func ratio(ref, cand string) float64 {
	refLen := len([]rune(ref))
	if refLen == 0 {
		if len(cand) == 0 {
			return 1.0
		}
		return 0.0
	}
	return 1.0 - float64(EditDistance(ref, cand))/float64(refLen)
}

// percentage converts a similarity value to an integer percentage, rounding
// half away from zero (math.Round).
func percentage(sim float64) int {
	return int(math.Round(sim * 100))
}

// splitWords splits a normalized phrase on single-space boundaries. The empty
// string has no words.
func splitWords(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}

// defaultEvaluator backs the package-level convenience functions.
var defaultEvaluator = New()

// Similarity scores candidate against reference using a default [Evaluator]
// (identity transcriber, standard band thresholds).
func Similarity(reference, candidate string) float64 {
	return defaultEvaluator.Similarity(reference, candidate)
}

// WorstWord finds the most-mismatched spoken word using a default [Evaluator].
func WorstWord(reference, candidate string) (string, bool) {
	return defaultEvaluator.WorstWord(reference, candidate)
}

// Evaluate runs the full scoring pipeline using a default [Evaluator].
func Evaluate(reference, candidate string) *Report {
	return defaultEvaluator.Evaluate(reference, candidate)
}
