// Package timekeeper holds the two time-counting engines: the 12-hour wall
// clock and the up-counting chronograph.  Both are pure tick-stepped state
// machines; the caller owns the decision of which one the display shows.
package timekeeper

// ClockTime is the wall-clock value as the four display digits plus the
// AM/PM flag.  The hour pair is always a valid 12-hour value: it rolls from
// 12 to 01, never to 13 or 00.
type ClockTime struct {
	MinOnes uint8 // 0-9
	MinTens uint8 // 0-5
	HrOnes  uint8
	HrTens  uint8 // 0 or 1
	PM      bool
}

// tickMinute advances the time by one minute with BCD carry up the chain.
func (t *ClockTime) tickMinute() {
	if t.MinOnes < 9 {
		t.MinOnes++
		return
	}
	t.MinOnes = 0
	t.tickMinTens()
}

func (t *ClockTime) tickMinTens() {
	if t.MinTens < 5 {
		t.MinTens++
		return
	}
	t.MinTens = 0
	t.tickHour()
}

// tickHour advances the hour pair.  PM toggles exactly on the 11 -> 12
// transition, and 12 rolls to 01.
func (t *ClockTime) tickHour() {
	switch t.HrTens*10 + t.HrOnes {
	case 11:
		t.PM = !t.PM
		t.HrTens, t.HrOnes = 1, 2
	case 12:
		t.HrTens, t.HrOnes = 0, 1
	case 9:
		t.HrTens, t.HrOnes = 1, 0
	default:
		t.HrOnes++
	}
}

// Clock free-runs the wall clock.  Outside set mode a tick accumulator
// counts off whole minutes; in set mode the accumulator is pinned at zero
// so that leaving set mode always starts exactly on a minute boundary.
type Clock struct {
	Time ClockTime

	ticks     int
	perMinute int
}

func NewClock(ticksPerSecond int) Clock {
	c := Clock{perMinute: 60 * ticksPerSecond}
	c.Reset()
	return c
}

// Reset restores the power-on time of 01:34 AM.
func (c *Clock) Reset() {
	c.Time = ClockTime{HrTens: 0, HrOnes: 1, MinTens: 3, MinOnes: 4}
	c.ticks = 0
}

// Step advances one tick.  While hold is true (set mode) the accumulator is
// held at zero and time does not advance.
func (c *Clock) Step(hold bool) {
	if hold {
		c.ticks = 0
		return
	}
	c.ticks++
	if c.ticks >= c.perMinute {
		// The wrap tick already counts as the first tick of the next
		// minute, so the accumulator restarts at 1, not 0.
		c.ticks = 1
		c.Time.tickMinute()
	}
}

// Increment applies a "+1" set-mode command to the digit group under the
// cursor, with the same carry rules as the automatic tick.
func (c *Clock) Increment(p Position) {
	switch p {
	case PosMinOnes:
		c.Time.tickMinute()
	case PosMinTens:
		c.Time.tickMinTens()
	case PosHours:
		c.Time.tickHour()
	}
	// The spare cursor encoding deliberately increments nothing.
}
