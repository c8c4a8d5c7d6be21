package score

import (
	"fmt"
	"strings"
)

const (
	defaultExcellentThreshold = 0.90
	defaultGoodThreshold      = 0.75
)

// Band is the qualitative feedback tier derived from a similarity score.
type Band string

const (
	// BandExcellent covers similarity >= 0.90.
	BandExcellent Band = "excellent"

	// BandGood covers similarity in [0.75, 0.90).
	BandGood Band = "good"

	// BandTryAgain covers everything below 0.75.
	BandTryAgain Band = "try_again"
)

// IsValid reports whether b is a recognised feedback band.
func (b Band) IsValid() bool {
	switch b {
	case BandExcellent, BandGood, BandTryAgain:
		return true
	}
	return false
}

// Message returns the fixed human-readable feedback line for the band.
// Output language is fixed; there is no locale variation.
func (b Band) Message() string {
	switch b {
	case BandExcellent:
		return "Excellent! Your pronunciation is spot on."
	case BandGood:
		return "Good job! Almost perfect — keep polishing."
	default:
		return "Keep practicing — listen to the phrase again and retry."
	}
}

// Report is the outcome of a single evaluation. It is constructed once per
// [Evaluator.Evaluate] call and not retained by this package.
type Report struct {
	// Reference is the target phrase exactly as supplied by the caller.
	Reference string `json:"reference"`

	// Candidate is the spoken phrase exactly as supplied by the caller.
	Candidate string `json:"candidate"`

	// Similarity is the raw similarity ratio. Usually in [0,1] but may be
	// negative when the candidate is much longer than the reference.
	Similarity float64 `json:"similarity"`

	// Percentage is Similarity×100 rounded half away from zero.
	Percentage int `json:"percentage"`

	// WorstWord is the spoken word that matched its reference counterpart
	// worst. Empty when every paired word matched perfectly or no words
	// could be paired.
	WorstWord string `json:"worst_word,omitempty"`

	// Band is the qualitative feedback tier.
	Band Band `json:"band"`

	// Message is the fixed feedback line for Band.
	Message string `json:"message"`
}

// Render formats the report as the human-readable feedback text shown to the
// learner. The template is deterministic: target, heard, score, an optional
// worst-word line, and the band message.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\n", r.Reference)
	fmt.Fprintf(&b, "You said: %s\n", r.Candidate)
	fmt.Fprintf(&b, "Score: %d%%\n", r.Percentage)
	if r.WorstWord != "" {
		fmt.Fprintf(&b, "Work on the word %q.\n", r.WorstWord)
	}
	b.WriteString(r.Message)
	return b.String()
}
