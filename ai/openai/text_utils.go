package openai

import (
	"os"
	"strings"
	"unicode"

	"github.com/poiesic/alphagraph/ai"
)

// sanitizePrompt drops control characters other than newlines and tabs and
// trims surrounding whitespace.
func sanitizePrompt(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// apiToken picks the bearer token: explicit config first, then OPENAI_API_KEY.
// Local OpenAI-compatible servers don't check the token, so "none" is used last.
func apiToken(config *ai.Config) string {
	if config.APIKey != "" {
		return config.APIKey
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return "none"
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
