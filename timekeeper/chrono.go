package timekeeper

// ChronoTime is the chronograph value as four display digits.  It counts
// minutes and seconds up to 89:59 and then wraps to 00:00.
type ChronoTime struct {
	SecOnes uint8 // 0-9
	SecTens uint8 // 0-5
	MinOnes uint8 // 0-9
	MinTens uint8 // 0-8
}

func (t *ChronoTime) tickSecond() {
	if t.SecOnes < 9 {
		t.SecOnes++
		return
	}
	t.SecOnes = 0
	if t.SecTens < 5 {
		t.SecTens++
		return
	}
	t.SecTens = 0
	if t.MinOnes < 9 {
		t.MinOnes++
		return
	}
	t.MinOnes = 0
	if t.MinTens < 8 {
		t.MinTens++
		return
	}
	t.MinTens = 0 // 89:59 wraps the whole value
}

// Chrono is the up-counting chronograph.  It accumulates whenever Running
// is set, regardless of which mode the display currently shows; only the
// start/stop/clear commands are gated on the mode, and that gating belongs
// to the caller.
type Chrono struct {
	Time    ChronoTime
	Running bool

	ticks     int
	perSecond int
}

func NewChrono(ticksPerSecond int) Chrono {
	return Chrono{perSecond: ticksPerSecond}
}

// Reset is the power-on reset: 00:00, stopped.
func (c *Chrono) Reset() {
	c.Clear()
}

// Clear forces the chronograph to 00:00 and stops it.  This is what a
// 2-second stop hold does.
func (c *Chrono) Clear() {
	c.Time = ChronoTime{}
	c.Running = false
	c.ticks = 0
}

// Step advances one tick of accumulated run time.
func (c *Chrono) Step() {
	if !c.Running {
		return
	}
	c.ticks++
	if c.ticks >= c.perSecond {
		c.ticks = 0
		c.Time.tickSecond()
	}
}
