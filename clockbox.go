// Package clockbox is the control and timekeeping core of the clock/
// chronograph.  The whole design is synchronous: the caller samples the
// four raw button levels, calls Step once per tick, and drives the display
// lines from the returned output.  There is no I/O and no time source in
// here; a tick is whatever the caller says it is.
package clockbox

import (
	"github.com/clockbox/clockbox/button"
	"github.com/clockbox/clockbox/display"
	"github.com/clockbox/clockbox/timekeeper"
)

// Inputs are the raw, possibly bouncing button levels sampled once per
// tick.  Reset is synchronous and forces every state element back to its
// power-on value.
type Inputs struct {
	Reset bool
	Power bool
	Mode  bool
	Start bool
	Stop  bool
}

// Outputs are the display lines recomputed every tick: a binary-coded
// column index on four lines and five row-illumination bits, bit 0 the top
// row.  A set row bit means "illuminate".
type Outputs struct {
	Column uint8 // 0-12
	Rows   uint8 // low 5 bits
}

// ColumnLines returns the column index as individual select lines, least
// significant first.
func (o Outputs) ColumnLines() [4]bool {
	var lines [4]bool
	for i := range lines {
		lines[i] = o.Column&(1<<i) != 0
	}
	return lines
}

// RowLines returns the row pattern as individual lines, top row first.
func (o Outputs) RowLines() [5]bool {
	var lines [5]bool
	for i := range lines {
		lines[i] = o.Rows&(1<<i) != 0
	}
	return lines
}

// Events reports what the input conditioners saw on the most recent Step.
// The pulses are one tick wide, so anything that wants them (event logs,
// metrics) must collect them every tick.  The core itself never reads this.
type Events struct {
	PowerPressed bool
	ModePressed  bool
	ModeHeld     bool
	StartPressed bool
	StopPressed  bool
	StopHeld     bool
	Mode         Mode
}

// Any reports whether any pulse fired.
func (e Events) Any() bool {
	return e.PowerPressed || e.ModePressed || e.ModeHeld || e.StartPressed || e.StopPressed || e.StopHeld
}

// Box is the whole core.  Every field has exactly one writer; the display
// driver only reads.
type Box struct {
	timing Timing

	buttons struct {
		power button.Channel
		mode  button.Channel
		start button.Channel
		stop  button.Channel
	}

	mode       Mode
	clock      timekeeper.Clock
	cursor     timekeeper.Cursor
	chrono     timekeeper.Chrono
	brightness display.Level
	driver     display.Driver

	events Events
}

// New returns a Box in its power-on state.
func New(t Timing) *Box {
	b := &Box{timing: t}
	b.buttons.power = button.NewChannel(t.DebounceTicks(), 0)
	b.buttons.start = button.NewChannel(t.DebounceTicks(), 0)
	b.buttons.mode = button.NewChannel(t.DebounceTicks(), t.HoldTicks())
	b.buttons.stop = button.NewChannel(t.DebounceTicks(), t.HoldTicks())
	b.clock = timekeeper.NewClock(t.TicksPerSecond())
	b.chrono = timekeeper.NewChrono(t.TicksPerSecond())
	b.driver = display.NewDriver(t.DwellTicks(), t.BlinkQuarterTicks())
	b.Reset()
	return b
}

// Reset forces every state element to its defined initial value: mode
// CLOCK, time 01:34 AM, chronograph cleared, full brightness.
func (b *Box) Reset() {
	b.buttons.power.Reset()
	b.buttons.mode.Reset()
	b.buttons.start.Reset()
	b.buttons.stop.Reset()
	b.mode = ModeClock
	b.clock.Reset()
	b.cursor.Reset()
	b.chrono.Reset()
	b.brightness = display.Full
	b.driver.Reset()
	b.events = Events{}
}

// Step advances the whole core by one tick.  Components update in a fixed
// order: input conditioning, mode, timekeepers, brightness, display.
func (b *Box) Step(in Inputs) Outputs {
	if in.Reset {
		b.Reset()
	}

	power := b.buttons.power.Step(in.Power)
	mode := b.buttons.mode.Step(in.Mode)
	start := b.buttons.start.Step(in.Start)
	stop := b.buttons.stop.Step(in.Stop)

	// Start/stop are interpreted in the mode the press was observed in,
	// before this tick's mode transition takes effect.
	prev := b.mode
	b.mode = b.mode.next(mode.Pressed, mode.Held)
	if b.mode == ModeClockSet && prev != ModeClockSet {
		b.cursor.Reset()
	}

	switch prev {
	case ModeClockSet:
		if start.Pressed {
			b.cursor.Next()
		}
		if stop.Pressed {
			b.clock.Increment(b.cursor.Position())
		}
	case ModeChrono:
		if start.Pressed && !b.chrono.Running {
			b.chrono.Running = true
		}
		if stop.Pressed && b.chrono.Running {
			b.chrono.Running = false
		}
		if stop.Held {
			b.chrono.Clear()
		}
	}

	b.clock.Step(b.mode == ModeClockSet)
	b.chrono.Step()

	if power.Pressed {
		b.brightness = b.brightness.Next()
	}

	b.events = Events{
		PowerPressed: power.Pressed,
		ModePressed:  mode.Pressed,
		ModeHeld:     mode.Held,
		StartPressed: start.Pressed,
		StopPressed:  stop.Pressed,
		StopHeld:     stop.Held,
		Mode:         b.mode,
	}

	col, rows := b.driver.Step(b.frame())
	return Outputs{Column: col, Rows: rows}
}

// frame assembles what the display should show this tick from whichever
// time source the mode selects.
func (b *Box) frame() display.Frame {
	if b.mode == ModeChrono {
		ct := b.chrono.Time
		return display.Frame{
			// The chronograph's leading digit is never suppressed;
			// 00:00 is a meaningful value.
			Digits:     [4]uint8{ct.MinTens, ct.MinOnes, ct.SecTens, ct.SecOnes},
			Brightness: b.brightness,
		}
	}

	t := b.clock.Time
	f := display.Frame{
		Digits:       [4]uint8{t.HrTens, t.HrOnes, t.MinTens, t.MinOnes},
		BlankLeading: t.HrTens == 0,
		Brightness:   b.brightness,
	}
	if b.mode == ModeClockSet {
		// The AM/PM marker is only ever shown while setting the clock.
		f.Marker = t.PM
		f.Blink = blinkGroup(b.cursor.Position())
	}
	return f
}

func blinkGroup(p timekeeper.Position) display.Group {
	switch p {
	case timekeeper.PosHours:
		return display.GroupHours
	case timekeeper.PosMinTens:
		return display.GroupMinTens
	case timekeeper.PosMinOnes:
		return display.GroupMinOnes
	}
	return display.GroupNone
}

// Events returns the conditioned button pulses observed on the most recent
// Step.
func (b *Box) Events() Events {
	return b.events
}

// ModeNow returns the current mode.
func (b *Box) ModeNow() Mode {
	return b.mode
}

// Brightness returns the current brightness level.
func (b *Box) Brightness() display.Level {
	return b.brightness
}

// ClockTime returns the current wall-clock value.
func (b *Box) ClockTime() timekeeper.ClockTime {
	return b.clock.Time
}

// ChronoTime returns the chronograph value and whether it is running.
func (b *Box) ChronoTime() (timekeeper.ChronoTime, bool) {
	return b.chrono.Time, b.chrono.Running
}
