package search

import "strings"

// Tokenize splits text on runs of whitespace. Tokens keep their case and
// punctuation so that a persisted corpus re-tokenizes identically.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// TokenizeAll tokenizes every text, preserving order.
func TokenizeAll(texts []string) [][]string {
	tokens := make([][]string, len(texts))
	for i, text := range texts {
		tokens[i] = Tokenize(text)
	}
	return tokens
}
