package phrase

// Cursor walks a deck's phrases in order. It replaces the global advancing
// index the original practice host kept: traversal state is explicit, owned
// by whoever created the Cursor, and never shared with the scoring core.
//
// A Cursor is not safe for concurrent use; each practice session owns its own.
type Cursor struct {
	deck *Deck
	next int
}

// NewCursor returns a Cursor positioned before the first phrase of deck.
func NewCursor(deck *Deck) *Cursor {
	return &Cursor{deck: deck}
}

// Deck returns the deck this cursor walks.
func (c *Cursor) Deck() *Deck { return c.deck }

// Next returns the next phrase and advances the cursor. ok is false once the
// deck is exhausted.
func (c *Cursor) Next() (p Phrase, ok bool) {
	if c.next >= len(c.deck.Phrases) {
		return Phrase{}, false
	}
	p = c.deck.Phrases[c.next]
	c.next++
	return p, true
}

// Peek returns the next phrase without advancing. ok is false once the deck
// is exhausted.
func (c *Cursor) Peek() (p Phrase, ok bool) {
	if c.next >= len(c.deck.Phrases) {
		return Phrase{}, false
	}
	return c.deck.Phrases[c.next], true
}

// Reset rewinds the cursor to the start of the deck.
func (c *Cursor) Reset() { c.next = 0 }

// Remaining reports how many phrases are left, including the one Peek would
// return.
func (c *Cursor) Remaining() int { return len(c.deck.Phrases) - c.next }

// Done reports whether the deck is exhausted.
func (c *Cursor) Done() bool { return c.next >= len(c.deck.Phrases) }
