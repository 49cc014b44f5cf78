// Package variants defines the wording-suggestion boundary: given a word,
// its sentence context, and its position, a provider returns an ordered
// list of alternative words.
package variants

import (
	"context"
	"strings"
)

// PredictWord is the reserved word value that asks a provider for a new
// trailing word instead of variations of an existing one.
const PredictWord = "[PREDICT]"

// MaskToken marks the end-of-sentence slot in a prediction request context.
const MaskToken = "[MASK]"

// Request identifies the word to vary and its surrounding sentence.
type Request struct {
	Word     string `json:"word"`
	Context  string `json:"context"`
	Position int    `json:"position"`
}

// Provider returns alternative wordings. An empty result means "no new
// variants available"; callers keep the current word. Providers never
// include the original word; callers prepend it at index 0.
type Provider interface {
	Variations(ctx context.Context, req Request) ([]string, error)
}

// VariantRequest builds a request for alternatives to the word at cursor,
// with the full sentence as context.
func VariantRequest(sentence []string, cursor int) Request {
	return Request{
		Word:     sentence[cursor],
		Context:  strings.Join(sentence, " "),
		Position: cursor,
	}
}

// PredictRequest builds a next-word prediction request: the sentence so far
// with the mask token appended, positioned one past the last real word.
func PredictRequest(sentence []string) Request {
	return Request{
		Word:     PredictWord,
		Context:  strings.Join(sentence, " ") + " " + MaskToken,
		Position: len(sentence),
	}
}
