// Package phonetic provides [score.Transcriber] implementations backed by the
// phonetic encoders in github.com/antzucaro/matchr.
//
// A phonetic transcriber replaces each word of a normalized phrase with its
// phonetic code before edit-distance scoring, so that homophone-level
// differences ("Smith" vs "Smyth") stop counting against the speaker. The
// encoders plug into the scoring pipeline without touching the edit-distance
// or ratio logic:
//
//	e := score.New(score.WithTranscriber(phonetic.Soundex()))
//	sim := e.Similarity(target, spoken)
//
// Codes are computed per word and words that produce no code (pure digits,
// single punctuation survivors) fall back to the original word, so the
// transcriber never changes the number of space-separated words — a
// requirement of the [score.Transcriber] contract.
package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/fonema/fonema/pkg/score"
)

// Soundex returns a [score.Transcriber] that replaces each word with its
// Soundex code (e.g. "Robert" and "Rupert" both encode to R163).
func Soundex() score.Transcriber {
	return perWord(func(word string) string {
		return matchr.Soundex(word)
	})
}

// Metaphone returns a [score.Transcriber] that replaces each word with its
// primary Double Metaphone code. Double Metaphone is more discriminating
// than Soundex for consonant clusters and loanwords.
func Metaphone() score.Transcriber {
	return perWord(func(word string) string {
		primary, _ := matchr.DoubleMetaphone(word)
		return primary
	})
}

// perWord lifts a word-level encoder to a phrase-level [score.Transcriber],
// preserving word positions. Empty codes fall back to the original word.
func perWord(encode func(string) string) score.Transcriber {
	return func(normalized string) string {
		if normalized == "" {
			return ""
		}
		words := strings.Split(normalized, " ")
		for i, w := range words {
			if w == "" {
				continue
			}
			if code := encode(w); code != "" {
				words[i] = code
			}
		}
		return strings.Join(words, " ")
	}
}
