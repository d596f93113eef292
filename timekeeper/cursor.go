package timekeeper

// Position selects which digit group a set-mode command applies to.  The
// selector is two bits wide in the hardware, so a fourth encoding exists;
// it is never reachable through Next and increments nothing.
type Position uint8

const (
	PosHours Position = iota
	PosMinTens
	PosMinOnes
	posSpare
)

// Cursor is the set-mode edit cursor.  It starts on the hour group and
// walks hour -> minutes-tens -> minutes-ones, wrapping back to the hour
// group and skipping the spare encoding.
type Cursor struct {
	pos Position
}

func (c *Cursor) Reset() {
	c.pos = PosHours
}

// Next moves the cursor to the next editable digit group.
func (c *Cursor) Next() {
	switch c.pos {
	case PosHours:
		c.pos = PosMinTens
	case PosMinTens:
		c.pos = PosMinOnes
	default:
		c.pos = PosHours
	}
}

func (c Cursor) Position() Position {
	return c.pos
}
