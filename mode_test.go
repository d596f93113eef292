package clockbox

import "testing"

// The transition table is exhaustive; everything not listed stays put, and
// undefined mode values recover to ModeClock.
func TestModeTransitions(t *testing.T) {
	testData := []struct {
		from    Mode
		pressed bool
		held    bool
		want    Mode
	}{
		{from: ModeClock, want: ModeClock},
		{from: ModeClock, pressed: true, want: ModeChrono},
		{from: ModeClock, held: true, want: ModeClockSet},
		{from: ModeClockSet, want: ModeClockSet},
		{from: ModeClockSet, pressed: true, want: ModeClock},
		{from: ModeClockSet, held: true, want: ModeClock},
		{from: ModeChrono, want: ModeChrono},
		{from: ModeChrono, pressed: true, want: ModeClock},
		{from: ModeChrono, held: true, want: ModeChrono},
		{from: Mode(200), want: ModeClock},
	}

	for _, test := range testData {
		got := test.from.next(test.pressed, test.held)
		if got != test.want {
			t.Errorf("%v (pressed=%v held=%v):\n  got: %v\n want: %v",
				test.from, test.pressed, test.held, got, test.want)
		}
	}
}
