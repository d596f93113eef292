package clockbox

// Mode selects what the display shows and how the start/stop buttons are
// interpreted.
type Mode uint8

const (
	ModeClock Mode = iota
	ModeClockSet
	ModeChrono
)

func (m Mode) String() string {
	switch m {
	case ModeClock:
		return "clock"
	case ModeClockSet:
		return "clock-set"
	case ModeChrono:
		return "chrono"
	}
	return "unknown"
}

// next applies one tick's worth of mode-button events.  The table is total:
// any mode value outside the enumeration falls back to ModeClock.
func (m Mode) next(pressed, held bool) Mode {
	switch m {
	case ModeClock:
		if held {
			return ModeClockSet
		}
		if pressed {
			return ModeChrono
		}
		return ModeClock
	case ModeClockSet:
		if held || pressed {
			return ModeClock
		}
		return ModeClockSet
	case ModeChrono:
		if pressed {
			return ModeClock
		}
		return ModeChrono // a hold is a no-op here
	}
	return ModeClock
}
