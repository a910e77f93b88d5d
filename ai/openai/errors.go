package openai

import "errors"

var (
	// ErrNoChoices is returned when the model response contains no choices.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrMalformedResponse is returned when a JSON response cannot be parsed after retries.
	ErrMalformedResponse = errors.New("model returned malformed JSON")
)
