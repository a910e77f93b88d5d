package ai

import "strings"

// SentimentLabel is the class assigned by a sentiment classifier.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ParseSentimentLabel maps classifier output such as "POSITIVE" or "neg" onto a label.
// Anything that is not recognisably positive or negative is neutral.
func ParseSentimentLabel(s string) SentimentLabel {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "pos"):
		return SentimentPositive
	case strings.HasPrefix(s, "neg"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Sentiment is a classifier result: a label and its confidence in [0, 1].
type Sentiment struct {
	Label     SentimentLabel
	Magnitude float64
}

// Signed maps the result onto [-1, 1]: positive is +Magnitude, negative is
// -Magnitude and neutral is 0. Magnitudes outside [0, 1] are clamped.
func (s Sentiment) Signed() float64 {
	m := s.Magnitude
	if m < 0 {
		m = 0
	}
	if m > 1 {
		m = 1
	}
	switch s.Label {
	case SentimentPositive:
		return m
	case SentimentNegative:
		return -m
	default:
		return 0
	}
}
