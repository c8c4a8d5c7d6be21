package score_test

import (
	"testing"

	"github.com/fonema/fonema/pkg/score"
)

func TestNormalize_LowerCasesAndStripsAccents(t *testing.T) {
	t.Parallel()

	got := score.Normalize("¿Me traés un café con leche, por favor?")
	want := "me traes un cafe con leche por favor"
	if got != want {
		t.Errorf("Normalize: got %q, want %q", got, want)
	}
}

func TestNormalize_OnlyFiveVowelsFolded(t *testing.T) {
	t.Parallel()

	// ñ and ü are letters outside the accent table: they survive unchanged.
	got := score.Normalize("El pingüino añora Ñandú")
	want := "el pingüino añora ñandu"
	if got != want {
		t.Errorf("Normalize: got %q, want %q", got, want)
	}
}

func TestNormalize_UppercaseAccentsFoldAfterLowering(t *testing.T) {
	t.Parallel()

	// Lower-casing runs before the vowel table, so Á becomes á and then a.
	got := score.Normalize("ÁRBOL")
	if got != "arbol" {
		t.Errorf("Normalize(%q): got %q, want %q", "ÁRBOL", got, "arbol")
	}
}

func TestNormalize_DropsPunctuationKeepsDigits(t *testing.T) {
	t.Parallel()

	got := score.Normalize("¡Son las 3:30, vamos!")
	want := "son las 330 vamos"
	if got != want {
		t.Errorf("Normalize: got %q, want %q", got, want)
	}
}

func TestNormalize_PreservesInternalWhitespace(t *testing.T) {
	t.Parallel()

	got := score.Normalize("  hola   mundo  ")
	want := "hola   mundo"
	if got != want {
		t.Errorf("Normalize: got %q, want %q", got, want)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	t.Parallel()

	if got := score.Normalize(""); got != "" {
		t.Errorf("Normalize(\"\"): got %q, want \"\"", got)
	}
	if got := score.Normalize("   "); got != "" {
		t.Errorf("Normalize(\"   \"): got %q, want \"\"", got)
	}
}

func TestNormalize_Idempotence(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"hola",
		"¿Qué tal? ¡Muy bien!",
		"Quiero un capuchino, por favor.",
		"  espacios   internos  ",
		"números 123 y letras",
		"PINGÜINO Ñandú áéíóú",
	}
	for _, in := range inputs {
		once := score.Normalize(in)
		twice := score.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
