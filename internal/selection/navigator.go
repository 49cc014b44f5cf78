package selection

import "math"

// Navigator maps the right dial's effective angle onto cursor movement.
// The cursor ranges over [0, length]; length itself is the transient
// pending-extension sentinel and must resolve before more input is
// consumed.
type Navigator struct {
	cursor       int
	lastConsumed float64
	extending    bool
}

// NewNavigator starts with the cursor at the given index and the given
// angle already consumed.
func NewNavigator(cursor int, angle float64) *Navigator {
	return &Navigator{cursor: cursor, lastConsumed: angle}
}

// Consume folds the dial's current effective angle into cursor movement and
// reports whether the cursor landed on the pending-extension sentinel.
// Only whole 60-degree steps are consumed; the sub-step remainder stays in
// the unconsumed angle and carries into the next call, so no rotation is
// ever lost to truncation. While an extension is in flight no input is
// consumed.
func (n *Navigator) Consume(angle float64, length int) bool {
	if n.extending {
		return false
	}
	delta := angle - n.lastConsumed
	steps := int(math.Floor(math.Abs(delta) / StepDegrees))
	if steps == 0 {
		return false
	}
	dir := 1
	if delta < 0 {
		dir = -1
	}
	n.lastConsumed += float64(steps*dir) * StepDegrees

	cursor := n.cursor + steps*dir
	if cursor < 0 {
		cursor = 0
	}
	if cursor > length {
		cursor = length
	}
	n.cursor = cursor
	return cursor == length
}

// Rebase marks the given angle as already consumed without moving the
// cursor. Called after the fusion layer performs an absolute jump (resync
// or desync) so the jump is not read as rotation.
func (n *Navigator) Rebase(angle float64) {
	n.lastConsumed = angle
}

// Cursor returns the current selection index.
func (n *Navigator) Cursor() int {
	return n.cursor
}

// Extending reports whether a sentence extension is in flight.
func (n *Navigator) Extending() bool {
	return n.extending
}

// BeginExtension marks an extension request in flight.
func (n *Navigator) BeginExtension() {
	n.extending = true
}

// FinishExtension resolves the sentinel onto the newly appended word: the
// cursor keeps its value, which now indexes the last word.
func (n *Navigator) FinishExtension() {
	n.extending = false
}

// AbortExtension reverts the cursor to the last valid index after a failed
// extension so navigation can continue.
func (n *Navigator) AbortExtension(length int) {
	n.extending = false
	n.cursor = length - 1
}
