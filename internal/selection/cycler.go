package selection

import "math"

// Cycler maps the left dial's effective angle onto the variant list of the
// word at the selection cursor.
type Cycler struct {
	cursor      int
	variants    []string
	lastFetched int
}

// NewCycler starts at the given cursor with the single-element placeholder
// variant set.
func NewCycler(cursor int, word string) *Cycler {
	c := &Cycler{lastFetched: -1}
	c.SetCursor(cursor, word)
	return c
}

// SetCursor discards the cached variants and installs the placeholder for
// the word now under the cursor. Any fetch still in flight for the old
// cursor becomes stale and will be rejected by ApplyFetch.
func (c *Cycler) SetCursor(cursor int, word string) {
	c.cursor = cursor
	c.variants = []string{word}
	c.lastFetched = -1
}

// NeedsFetch reports whether variants for the current cursor are still
// missing.
func (c *Cycler) NeedsFetch() bool {
	return c.lastFetched != c.cursor
}

// ApplyFetch installs provider results fetched for the given originating
// cursor. Results for a cursor the selection has since left are discarded.
// variants[0] is always the original word. Returns whether the results were
// applied.
func (c *Cycler) ApplyFetch(origin int, original string, results []string) bool {
	if origin != c.cursor {
		return false
	}
	c.variants = append([]string{original}, results...)
	c.lastFetched = origin
	return true
}

// Prime installs a full variant list for a cursor, marking it fetched. Used
// after sentence extension so the newly appended word can be cycled without
// a redundant provider call.
func (c *Cycler) Prime(cursor int, variants []string) {
	if len(variants) == 0 {
		return
	}
	c.cursor = cursor
	c.variants = append([]string(nil), variants...)
	c.lastFetched = cursor
}

// Index maps an effective angle onto a variant index.
func (c *Cycler) Index(angle float64) int {
	return int(math.Floor(math.Abs(angle)/StepDegrees)) % len(c.variants)
}

// Pick returns the variant selected by the angle.
func (c *Cycler) Pick(angle float64) string {
	return c.variants[c.Index(angle)]
}

// Cursor returns the cursor the cached variants belong to.
func (c *Cycler) Cursor() int {
	return c.cursor
}

// Variants returns the cached variant list.
func (c *Cycler) Variants() []string {
	return c.variants
}
