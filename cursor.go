package babel

// Cursor is a view over the input that still has to be parsed.  The
// input itself is never copied: a cursor is an offset into a shared
// immutable string plus a failure flag, which makes forking it a
// constant time operation.
type Cursor struct {
	input      string
	pos        int
	failed     bool
	skipSpaces bool
}

// NewCursor creates a cursor positioned at the beginning of `input`.
// When `skipSpaces` is true, every pattern that isn't marked as raw
// skips leading whitespace before trying to match.
func NewCursor(input string, skipSpaces bool) *Cursor {
	return &Cursor{input: input, skipSpaces: skipSpaces}
}

// Fork returns an independent copy of the cursor.  Nothing the fork
// does is visible to `c` until it's joined back.
func (c *Cursor) Fork() *Cursor {
	f := *c
	return &f
}

// Join commits the state of a fork created with `Fork`.  The child
// must not be used afterwards.
func (c *Cursor) Join(child *Cursor) {
	c.pos = child.pos
	c.failed = child.failed
}

// Consume tries to match `p` at the current position.  On success the
// cursor advances past the matched text and the token is returned.
// A miss leaves the cursor untouched.
func (c *Cursor) Consume(p *Pattern) (Token, bool) {
	if c.failed {
		return Token{}, false
	}
	start := c.pos
	if c.skipSpaces && !p.raw {
		start = c.skip(start)
	}
	tok, ok := p.match(c.input, start)
	if !ok {
		return Token{}, false
	}
	c.pos = tok.Range.End
	return tok, true
}

// Fail marks the cursor as failed.  A failed cursor doesn't consume
// any more input.
func (c *Cursor) Fail() { c.failed = true }

// Failed returns true after `Fail` was called on this cursor or on a
// fork that was joined into it.
func (c *Cursor) Failed() bool { return c.failed }

// Pos returns the byte offset of the cursor within the input.
func (c *Cursor) Pos() int { return c.pos }

// Input returns the whole input the cursor was created with.
func (c *Cursor) Input() string { return c.input }

// Remaining returns the input that hasn't been consumed yet.
func (c *Cursor) Remaining() string { return c.input[c.pos:] }

// AtEnd returns true if the whole input was consumed.  Trailing
// whitespace is ignored when the cursor skips spaces.
func (c *Cursor) AtEnd() bool {
	return c.next() >= len(c.input)
}

// Location returns the line and column of the cursor.
func (c *Cursor) Location() Location {
	return locationAt(c.input, c.pos)
}

var spacingBytes = [256]bool{
	' ':  true,
	'\t': true,
	'\r': true,
	'\n': true,
}

// next is where the next pattern that skips spaces would start
func (c *Cursor) next() int {
	if c.skipSpaces {
		return c.skip(c.pos)
	}
	return c.pos
}

func (c *Cursor) skip(pos int) int {
	for pos < len(c.input) && spacingBytes[c.input[pos]] {
		pos++
	}
	return pos
}
