package button

import "testing"

// run steps the channel through the raw level sequence and returns the
// total pulses observed.
func run(c *Channel, levels []bool) (pressed, held int) {
	for _, l := range levels {
		ev := c.Step(l)
		if ev.Pressed {
			pressed++
		}
		if ev.Held {
			held++
		}
	}
	return
}

func repeat(level bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = level
	}
	return out
}

func TestSynchronizerLatency(t *testing.T) {
	var s Synchronizer
	got := []bool{s.Step(true), s.Step(true), s.Step(true)}
	want := []bool{false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d:\n  got: %v\n want: %v", i, got[i], want[i])
		}
	}
}

func TestDebouncerRejectsGlitch(t *testing.T) {
	d := NewDebouncer(4)

	// A one-tick glitch in the middle of a window never reaches the
	// output.
	seq := []bool{false, true, false, false, false, false, false, false}
	for i, l := range seq {
		if got := d.Step(l); got {
			t.Errorf("tick %d: glitch reached debounced output", i)
		}
	}

	// A level held across a window boundary does.
	d = NewDebouncer(4)
	var saw bool
	for _, l := range repeat(true, 8) {
		saw = saw || d.Step(l)
	}
	if !saw {
		t.Error("steady level never reached debounced output")
	}
}

func TestDebouncerUpdatesOnlyAtBoundary(t *testing.T) {
	d := NewDebouncer(5)
	for i := 0; i < 4; i++ {
		if got := d.Step(true); got {
			t.Errorf("tick %d: output changed mid-window", i)
		}
	}
	if got := d.Step(true); !got {
		t.Error("output did not update at window boundary")
	}
}

func TestPressPulsesOnRelease(t *testing.T) {
	var p Press
	if p.Step(true) {
		t.Error("pulse on press, want pulse on release only")
	}
	for i := 0; i < 10; i++ {
		if p.Step(true) {
			t.Errorf("tick %d: pulse while button still down", i)
		}
	}
	if !p.Step(false) {
		t.Error("no pulse on release")
	}
	if p.Step(false) {
		t.Error("second pulse for a single release")
	}
}

func TestHoldDiscrimination(t *testing.T) {
	testData := []struct {
		name        string
		pressTicks  int
		wantPressed int
		wantHeld    int
	}{
		{name: "short press", pressTicks: 5, wantPressed: 1, wantHeld: 0},
		{name: "just under threshold", pressTicks: 19, wantPressed: 1, wantHeld: 0},
		{name: "held to threshold", pressTicks: 25, wantPressed: 0, wantHeld: 1},
		{name: "held indefinitely", pressTicks: 500, wantPressed: 0, wantHeld: 1},
	}

	for _, test := range testData {
		h := NewHold(20)
		var pressed, held int
		for i := 0; i < test.pressTicks; i++ {
			ev := h.Step(true)
			if ev.Pressed {
				pressed++
			}
			if ev.Held {
				held++
			}
		}
		// Release and idle for a while; nothing further may fire.
		for i := 0; i < 50; i++ {
			ev := h.Step(false)
			if ev.Pressed {
				pressed++
			}
			if ev.Held {
				held++
			}
		}
		if pressed != test.wantPressed || held != test.wantHeld {
			t.Errorf("%s: pulses (pressed, held):\n  got: (%d, %d)\n want: (%d, %d)",
				test.name, pressed, held, test.wantPressed, test.wantHeld)
		}
	}
}

func TestHoldRearmsAfterRelease(t *testing.T) {
	h := NewHold(10)
	run := func(levels []bool) (pressed, held int) {
		for _, l := range levels {
			ev := h.Step(l)
			if ev.Pressed {
				pressed++
			}
			if ev.Held {
				held++
			}
		}
		return
	}

	if _, held := run(repeat(true, 100)); held != 1 {
		t.Fatalf("first hold: held pulses:\n  got: %d\n want: 1", held)
	}
	run(repeat(false, 5))
	if _, held := run(repeat(true, 100)); held != 1 {
		t.Errorf("second hold: held pulses:\n  got: %d\n want: 1", held)
	}
}

func TestChannelPressOnly(t *testing.T) {
	c := NewChannel(3, 0)

	var seq []bool
	seq = append(seq, repeat(true, 12)...)
	seq = append(seq, repeat(false, 12)...)

	pressed, held := run(&c, seq)
	if pressed != 1 || held != 0 {
		t.Errorf("pulses (pressed, held):\n  got: (%d, %d)\n want: (1, 0)", pressed, held)
	}
}

func TestChannelHold(t *testing.T) {
	c := NewChannel(3, 30)

	var seq []bool
	seq = append(seq, repeat(true, 100)...)
	seq = append(seq, repeat(false, 20)...)

	pressed, held := run(&c, seq)
	if pressed != 0 || held != 1 {
		t.Errorf("pulses (pressed, held):\n  got: (%d, %d)\n want: (0, 1)", pressed, held)
	}
}

func TestChannelReset(t *testing.T) {
	c := NewChannel(3, 30)
	run(&c, repeat(true, 40)) // mid-hold
	c.Reset()

	// After reset the half-finished press must not produce anything on
	// its own.
	pressed, held := run(&c, repeat(false, 40))
	if pressed != 0 || held != 0 {
		t.Errorf("pulses after reset (pressed, held):\n  got: (%d, %d)\n want: (0, 0)", pressed, held)
	}
}
