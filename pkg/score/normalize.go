package score

import (
	"strings"
	"unicode"
)

// accentFold maps the five accented lowercase Spanish vowels to their
// unaccented forms. The table is intentionally exhaustive: ñ, ü, uppercase
// accented vowels, and all other diacritics pass through Normalize unchanged.
// Widening this to full Unicode decomposition would change scores for
// existing phrase decks, so the table stays fixed.
var accentFold = map[rune]rune{
	'á': 'a',
	'é': 'e',
	'í': 'i',
	'ó': 'o',
	'ú': 'u',
}

// Normalize prepares a phrase for scoring. Steps, in order:
//
//  1. Lower-case using locale-invariant case folding.
//  2. Replace á, é, í, ó, ú with their unaccented vowels (see accentFold).
//  3. Drop every rune that is not a letter, digit, or whitespace.
//  4. Trim leading and trailing whitespace.
//
// Internal whitespace runs are preserved. Normalize is a total function over
// any string: empty input yields empty output, and it is idempotent —
// Normalize(Normalize(s)) == Normalize(s) for all s.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
