package clockbox

import "github.com/clockbox/clockbox/display"

// Timing derives every counter threshold in the core from the tick rate.
// The hardware runs at Nominal; tests and simulators run the same logic at
// whatever rate they can afford, and every duration below scales with it.
type Timing struct {
	TickRate int // ticks per second
}

// Nominal is the tick rate of the physical device.
var Nominal = Timing{TickRate: 10_000_000}

func (t Timing) TicksPerSecond() int {
	return t.TickRate
}

// DebounceTicks is the 50 ms button debounce window.
func (t Timing) DebounceTicks() int {
	return atLeast(t.TickRate/20, 1)
}

// HoldTicks is the 2-second press/hold discrimination threshold.
func (t Timing) HoldTicks() int {
	return atLeast(2*t.TickRate, 1)
}

// DwellTicks is how long each display column stays active.
func (t Timing) DwellTicks() int {
	return atLeast(t.TickRate/(display.RefreshRate*display.Columns), 1)
}

// BlinkQuarterTicks is a quarter of the one-second set-mode blink window.
func (t Timing) BlinkQuarterTicks() int {
	return atLeast(t.TickRate/4, 1)
}

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}
