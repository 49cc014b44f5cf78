// Package selection turns dial angles into word-variant and word-position
// transitions over a shared sentence.
package selection

import "strings"

// StepDegrees is the rotation consumed per discrete transition: a full turn
// covers at most six variants or six cursor steps.
const StepDegrees = 60

// Sentence is an ordered, mutable word list. It is never empty.
type Sentence []string

// NewSentence splits a seed phrase into words. An empty seed yields a
// single-word sentence so index invariants hold from the start.
func NewSentence(seed string) Sentence {
	words := strings.Fields(seed)
	if len(words) == 0 {
		words = []string{"the"}
	}
	return Sentence(words)
}

// String joins the words with spaces.
func (s Sentence) String() string {
	return strings.Join(s, " ")
}

// Window returns the [start, end) slice bounds of a fixed-width display
// window centered on cursor and clamped to the sentence at both ends.
func (s Sentence) Window(cursor, width int) (int, int) {
	if width <= 0 || width >= len(s) {
		return 0, len(s)
	}
	start := cursor - width/2
	if start < 0 {
		start = 0
	}
	if start > len(s)-width {
		start = len(s) - width
	}
	return start, start + width
}
