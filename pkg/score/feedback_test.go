package score_test

import (
	"strings"
	"testing"

	"github.com/fonema/fonema/pkg/score"
)

func TestBand_InclusiveLowerBounds(t *testing.T) {
	t.Parallel()

	// One substitution in a ten-rune reference: similarity exactly 0.90.
	r := score.Evaluate("abcdefghij", "abcdefghix")
	if r.Band != score.BandExcellent {
		t.Errorf("similarity 0.90: band=%q, want %q (bound is inclusive)", r.Band, score.BandExcellent)
	}

	// One substitution in a four-rune reference: similarity exactly 0.75.
	r = score.Evaluate("casa", "cosa")
	if r.Band != score.BandGood {
		t.Errorf("similarity 0.75: band=%q, want %q (bound is inclusive)", r.Band, score.BandGood)
	}

	// Nothing in common: similarity 0.
	r = score.Evaluate("ab", "xy")
	if r.Band != score.BandTryAgain {
		t.Errorf("similarity 0: band=%q, want %q", r.Band, score.BandTryAgain)
	}
}

func TestBand_IsValid(t *testing.T) {
	t.Parallel()

	for _, b := range []score.Band{score.BandExcellent, score.BandGood, score.BandTryAgain} {
		if !b.IsValid() {
			t.Errorf("Band(%q).IsValid() = false, want true", b)
		}
	}
	if score.Band("perfect").IsValid() {
		t.Error(`Band("perfect").IsValid() = true, want false`)
	}
}

func TestBand_MessagesAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[string]score.Band{}
	for _, b := range []score.Band{score.BandExcellent, score.BandGood, score.BandTryAgain} {
		msg := b.Message()
		if msg == "" {
			t.Errorf("Band(%q).Message() is empty", b)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("bands %q and %q share message %q", prev, b, msg)
		}
		seen[msg] = b
	}
}

func TestReport_RenderIncludesWorstWordLine(t *testing.T) {
	t.Parallel()

	r := score.Evaluate("buenos dias", "buenas tardes")
	out := r.Render()

	for _, want := range []string{
		"Target: buenos dias",
		"You said: buenas tardes",
		"Score:",
		`"tardes"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_RenderOmitsWorstWordLineOnPerfectMatch(t *testing.T) {
	t.Parallel()

	r := score.Evaluate("hola mundo", "Hola, mundo.")
	out := r.Render()

	if strings.Contains(out, "Work on the word") {
		t.Errorf("Render should omit the worst-word line for a perfect match:\n%s", out)
	}
	if !strings.Contains(out, "Score: 100%") {
		t.Errorf("Render output missing perfect score:\n%s", out)
	}
	if !strings.Contains(out, r.Message) {
		t.Errorf("Render output missing band message %q:\n%s", r.Message, out)
	}
}
