package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into literal lowercase tokens. No stemming and no
// stopword removal: lexical scoring treats query terms literally, so
// "domains" and "domain" are distinct terms.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize lowercases the text and splits it on non-alphanumeric boundaries.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
