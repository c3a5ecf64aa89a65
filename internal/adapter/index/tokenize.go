package index

import (
	"strings"
	"unicode"
)

// wordTokens lowercases text and splits it into unicode letter/digit runs
// of length >= 2, then appends adjacent-word bigrams. Bigrams give the
// word space a phrase-level signal ("personal data" vs the two words in
// isolation).
func wordTokens(text string) []string {
	words := splitWords(text)

	tokens := make([]string, 0, len(words)*2)
	for _, w := range words {
		tokens = append(tokens, w)
	}
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+" "+words[i+1])
	}
	return tokens
}

// charTokens emits rune n-grams (n=2..4) drawn within word boundaries,
// each word padded with a leading and trailing space. Sub-word grams keep
// partial matches alive on agglutinated terms and OCR-mangled text.
func charTokens(text string) []string {
	words := splitWords(text)

	var tokens []string
	for _, w := range words {
		padded := []rune(" " + w + " ")
		for n := 2; n <= 4; n++ {
			if len(padded) < n {
				continue
			}
			for i := 0; i+n <= len(padded); i++ {
				tokens = append(tokens, string(padded[i:i+n]))
			}
		}
	}
	return tokens
}

func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			words = appendWord(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = appendWord(words, current.String())
	}
	return words
}

func appendWord(words []string, w string) []string {
	if len([]rune(w)) < 2 {
		return words
	}
	return append(words, w)
}
