// Package button conditions the raw front-panel button lines.  Each line is
// asynchronous and mechanically bouncy; by the time an event leaves this
// package it is a clean one-tick pulse that the rest of the core can trust.
package button

// Event is the result of conditioning one tick's worth of raw input.  At
// most one of the fields is set, and only for a single tick per physical
// press.
type Event struct {
	Pressed bool // a press shorter than the hold threshold was released
	Held    bool // a press has been sustained for the hold threshold
}

// Synchronizer is a 2-stage flop chain that brings an asynchronous level
// into the tick domain before anything else looks at it.
type Synchronizer struct {
	s0, s1 bool
}

// Step clocks the chain once and returns the synchronized level.
func (s *Synchronizer) Step(raw bool) bool {
	s.s1, s.s0 = s.s0, raw
	return s.s1
}

// Debouncer samples the synchronized level once per window and holds its
// output steady in between.  A spurious transition shorter than one window
// can never reach the output.
type Debouncer struct {
	window int
	count  int
	out    bool
}

func NewDebouncer(windowTicks int) Debouncer {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return Debouncer{window: windowTicks}
}

// Step advances the window counter and returns the debounced level.  The
// output only updates at window boundaries.
func (d *Debouncer) Step(level bool) bool {
	d.count++
	if d.count >= d.window {
		d.count = 0
		d.out = level
	}
	return d.out
}

// Press is the 2-state edge detector used for the power and start buttons.
// It emits a single pulse on the debounced release that follows an
// activation, never on the press itself.
type Press struct {
	active bool
}

// Step returns true for exactly one tick per press/release cycle.
func (p *Press) Step(level bool) bool {
	switch {
	case !p.active && level:
		p.active = true
	case p.active && !level:
		p.active = false
		return true
	}
	return false
}

type holdState uint8

const (
	holdWait holdState = iota
	holdPressed
	holdReleased
)

// Hold discriminates short presses from sustained holds for the stop and
// mode buttons.  A release before the threshold yields one pressed pulse; a
// press that reaches the threshold yields one held pulse and then nothing
// more until the button is fully released.
type Hold struct {
	threshold int
	state     holdState
	count     int
}

func NewHold(thresholdTicks int) Hold {
	return Hold{threshold: thresholdTicks}
}

func (h *Hold) Step(level bool) Event {
	switch h.state {
	case holdPressed:
		if !level {
			h.state = holdWait
			return Event{Pressed: true}
		}
		if h.count >= h.threshold {
			// The counter is latched here; it must not keep
			// incrementing and re-trigger on a later wrap.
			h.state = holdReleased
			return Event{Held: true}
		}
		h.count++
	case holdReleased:
		if !level {
			h.state = holdWait
		}
	default: // holdWait, and anything undefined
		h.state = holdWait
		if level {
			h.state = holdPressed
			h.count = 0
		}
	}
	return Event{}
}

// Channel is the full conditioning chain for one physical button:
// synchronizer, debouncer, and either a press detector or a press/hold
// detector.
type Channel struct {
	sync    Synchronizer
	deb     Debouncer
	press   Press
	hold    Hold
	hasHold bool
}

// NewChannel returns a channel that debounces with the given window.  A
// positive holdTicks enables hold detection; zero gives a press-only
// channel.
func NewChannel(debounceTicks, holdTicks int) Channel {
	c := Channel{deb: NewDebouncer(debounceTicks)}
	if holdTicks > 0 {
		c.hasHold = true
		c.hold = NewHold(holdTicks)
	}
	return c
}

// Step runs one tick of conditioning on the raw level.
func (c *Channel) Step(raw bool) Event {
	level := c.deb.Step(c.sync.Step(raw))
	if c.hasHold {
		return c.hold.Step(level)
	}
	if c.press.Step(level) {
		return Event{Pressed: true}
	}
	return Event{}
}

// Reset returns every stage to its power-on state.  The window and hold
// thresholds are kept.
func (c *Channel) Reset() {
	holdTicks := 0
	if c.hasHold {
		holdTicks = c.hold.threshold
	}
	*c = NewChannel(c.deb.window, holdTicks)
}
