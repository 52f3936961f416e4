package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonWord matches runs of characters that separate words. Diacritics are
// stripped before splitting, so accented letters never act as separators.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// RemoveDiacritics replaces accented characters with their base letter
// (canonical decomposition, combining marks removed)
func RemoveDiacritics(s string) string {
	// transformers carry state, so a fresh chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize trims, lowercases and strips diacritics from a single word
func Normalize(word string) string {
	return RemoveDiacritics(strings.ToLower(strings.TrimSpace(word)))
}

// Tokenize splits text into normalized word tokens in source order.
// Tokens may be empty (e.g. for leading punctuation); Filter drops them.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	parts := nonWord.Split(RemoveDiacritics(text), -1)
	tokens := make([]string, len(parts))
	for i, part := range parts {
		tokens[i] = Normalize(part)
	}
	return tokens
}

// TextToTokens tokenizes text and removes stopwords, blocked words and numbers
func TextToTokens(text string) []string {
	return Filter(Tokenize(text))
}
