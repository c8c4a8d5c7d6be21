package score_test

import (
	"math"
	"strings"
	"testing"

	"github.com/fonema/fonema/pkg/score"
)

func TestSimilarity_SelfMatch(t *testing.T) {
	t.Parallel()

	phrases := []string{
		"hola",
		"Quiero un capuchino, por favor.",
		"¿Dónde está la biblioteca?",
	}
	for _, p := range phrases {
		if got := score.Similarity(p, p); got != 1.0 {
			t.Errorf("Similarity(%q, %q): got %v, want 1.0", p, p, got)
		}
	}
}

func TestSimilarity_PunctuationOnlyDifference(t *testing.T) {
	t.Parallel()

	ref := "Quiero un capuchino, por favor."
	cand := "Quiero un capuchino por favor"

	if got := score.Similarity(ref, cand); got != 1.0 {
		t.Errorf("Similarity: got %v, want 1.0 (normalized forms should be equal)", got)
	}
}

func TestSimilarity_EmptyCandidate(t *testing.T) {
	t.Parallel()

	// distance == len(reference) → similarity exactly 0.
	if got := score.Similarity("hola mundo", ""); got != 0.0 {
		t.Errorf("Similarity(ref, \"\"): got %v, want 0.0", got)
	}
}

func TestSimilarity_BothEmpty(t *testing.T) {
	t.Parallel()

	if got := score.Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity(\"\", \"\"): got %v, want 1.0 (degenerate guard)", got)
	}
	// Punctuation-only reference also normalizes to empty.
	if got := score.Similarity("¡¿?!", "..."); got != 1.0 {
		t.Errorf("Similarity(punct-only, punct-only): got %v, want 1.0", got)
	}
}

func TestSimilarity_EmptyReferenceNonEmptyCandidate(t *testing.T) {
	t.Parallel()

	if got := score.Similarity("", "hola"); got != 0.0 {
		t.Errorf("Similarity(\"\", %q): got %v, want 0.0", "hola", got)
	}
}

func TestSimilarity_CanGoNegative(t *testing.T) {
	t.Parallel()

	// The ratio divides by the reference length, so a candidate much longer
	// than the reference drives similarity below zero.
	got := score.Similarity("a", "abcde")
	if got >= 0 {
		t.Errorf("Similarity(\"a\", \"abcde\"): got %v, want negative", got)
	}
	if want := 1.0 - 4.0/1.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Similarity(\"a\", \"abcde\"): got %v, want %v", got, want)
	}
}

func TestWorstWord_PicksLowestSimilarityPair(t *testing.T) {
	t.Parallel()

	ref := "¿Me traés un café con leche, por favor?"
	cand := "me traigo un cafe con leche por favor"

	word, ok := score.WorstWord(ref, cand)
	if !ok {
		t.Fatalf("WorstWord(%q, %q): ok=false, want true", ref, cand)
	}
	if word != "traigo" {
		t.Errorf("WorstWord: got %q, want %q", word, "traigo")
	}
}

func TestWorstWord_ReturnsCandidateWord(t *testing.T) {
	t.Parallel()

	// The report should show what the speaker actually said, not the target.
	word, ok := score.WorstWord("buenos dias", "buenas tardes")
	if !ok {
		t.Fatal("WorstWord: ok=false, want true")
	}
	if word != "tardes" {
		t.Errorf("WorstWord: got %q, want candidate word %q", word, "tardes")
	}
}

func TestWorstWord_TieKeepsEarliest(t *testing.T) {
	t.Parallel()

	// Both pairs score 1 - 1/2 = 0.5; strict less-than keeps the first.
	word, ok := score.WorstWord("ab cd", "ax cx")
	if !ok {
		t.Fatal("WorstWord: ok=false, want true")
	}
	if word != "ax" {
		t.Errorf("WorstWord tie: got %q, want earliest word %q", word, "ax")
	}
}

func TestWorstWord_IgnoresTrailingUnpairedWords(t *testing.T) {
	t.Parallel()

	// "gracias" has no positional partner and must not influence the result.
	word, ok := score.WorstWord("hola amigo", "hola amigx gracias extra")
	if !ok {
		t.Fatal("WorstWord: ok=false, want true")
	}
	if word != "amigx" {
		t.Errorf("WorstWord: got %q, want %q", word, "amigx")
	}
}

func TestWorstWord_NoPairs(t *testing.T) {
	t.Parallel()

	if _, ok := score.WorstWord("hola", ""); ok {
		t.Error("WorstWord(ref, \"\"): ok=true, want false")
	}
	if _, ok := score.WorstWord("", "hola"); ok {
		t.Error("WorstWord(\"\", cand): ok=true, want false")
	}
	if _, ok := score.WorstWord("", ""); ok {
		t.Error("WorstWord(\"\", \"\"): ok=true, want false")
	}
}

func TestWorstWord_SkipsWordsFromWhitespaceRuns(t *testing.T) {
	t.Parallel()

	// The double space in the candidate splits into an empty word paired
	// against "gato". That pair must not win the worst slot: an empty
	// winner would be indistinguishable from "no worst word" and hide the
	// real mismatch on "negro".
	word, ok := score.WorstWord("un gato negro", "un  gato")
	if !ok {
		t.Fatal("WorstWord: ok=false, want true")
	}
	if word != "gato" {
		t.Errorf("WorstWord: got %q, want %q", word, "gato")
	}
}

func TestEvaluate_PerfectMatchScenario(t *testing.T) {
	t.Parallel()

	r := score.Evaluate("Quiero un capuchino, por favor.", "Quiero un capuchino por favor")

	if r.Percentage != 100 {
		t.Errorf("Percentage: got %d, want 100", r.Percentage)
	}
	if r.Band != score.BandExcellent {
		t.Errorf("Band: got %q, want %q", r.Band, score.BandExcellent)
	}
	if r.WorstWord != "" {
		t.Errorf("WorstWord: got %q, want empty for a perfect match", r.WorstWord)
	}
}

func TestEvaluate_SubstitutedWordScenario(t *testing.T) {
	t.Parallel()

	r := score.Evaluate(
		"¿Me traés un café con leche, por favor?",
		"me traigo un cafe con leche por favor",
	)

	if r.Percentage <= 75 || r.Percentage >= 100 {
		t.Errorf("Percentage: got %d, want strictly between 75 and 100", r.Percentage)
	}
	if r.WorstWord != "traigo" {
		t.Errorf("WorstWord: got %q, want %q", r.WorstWord, "traigo")
	}
}

func TestEvaluate_EmptyCandidateScenario(t *testing.T) {
	t.Parallel()

	r := score.Evaluate("Quiero un capuchino, por favor.", "")

	if r.Percentage != 0 {
		t.Errorf("Percentage: got %d, want 0", r.Percentage)
	}
	if r.Band != score.BandTryAgain {
		t.Errorf("Band: got %q, want %q", r.Band, score.BandTryAgain)
	}
}

func TestEvaluate_BothEmptyScenario(t *testing.T) {
	t.Parallel()

	r := score.Evaluate("", "")

	if r.Percentage != 100 {
		t.Errorf("Percentage: got %d, want 100 (degenerate guard)", r.Percentage)
	}
	if r.WorstWord != "" {
		t.Errorf("WorstWord: got %q, want empty", r.WorstWord)
	}
}

func TestEvaluate_EchoesInputsVerbatim(t *testing.T) {
	t.Parallel()

	ref := "¿Qué tal?"
	cand := "que tal"
	r := score.Evaluate(ref, cand)

	if r.Reference != ref {
		t.Errorf("Reference: got %q, want %q", r.Reference, ref)
	}
	if r.Candidate != cand {
		t.Errorf("Candidate: got %q, want %q", r.Candidate, cand)
	}
}

func TestEvaluator_CustomTranscriber(t *testing.T) {
	t.Parallel()

	// A transcriber that strips vowels makes "peso" and "piso" identical.
	noVowels := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch r {
			case 'a', 'e', 'i', 'o', 'u':
				return -1
			}
			return r
		}, s)
	}

	e := score.New(score.WithTranscriber(noVowels))
	if got := e.Similarity("peso", "piso"); got != 1.0 {
		t.Errorf("Similarity with vowel-stripping transcriber: got %v, want 1.0", got)
	}

	// The default evaluator still tells them apart.
	if got := score.Similarity("peso", "piso"); got == 1.0 {
		t.Error("default Similarity should distinguish peso/piso")
	}
}

func TestEvaluator_CustomBandThresholds(t *testing.T) {
	t.Parallel()

	e := score.New(score.WithBandThresholds(0.99, 0.50))

	// "casa" vs "cosa": similarity 0.75 — below the raised excellent bar,
	// above the lowered good bar.
	r := e.Evaluate("casa", "cosa")
	if r.Band != score.BandGood {
		t.Errorf("Band with custom thresholds: got %q, want %q", r.Band, score.BandGood)
	}
}
