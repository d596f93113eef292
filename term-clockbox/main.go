// Command term-clockbox simulates the whole device in a terminal: the
// keyboard stands in for the four buttons and the scanned matrix is drawn
// as text.  Handy for poking at the core's behavior without any hardware.
//
// Keys: p=power, m=mode, s=start, t=stop; M and T hold their button for
// over two seconds; r pulses reset; q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/term"

	"github.com/clockbox/clockbox"
	"github.com/clockbox/clockbox/display"
	"github.com/clockbox/clockbox/runner"
)

var (
	tickRate = flag.Int("tick-rate", 48880, "core ticks per second")
	tty      = flag.String("tty", "/dev/tty", "terminal to take over")
)

const (
	tapDuration  = 150 * time.Millisecond
	holdDuration = 2500 * time.Millisecond
)

// keyButtons turns momentary keystrokes into button levels held for a
// fixed duration, since a terminal has no key-up events.
type keyButtons struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func newKeyButtons() *keyButtons {
	return &keyButtons{until: make(map[string]time.Time)}
}

func (k *keyButtons) press(button string, d time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.until[button] = time.Now().Add(d)
}

func (k *keyButtons) down(button string) bool {
	return time.Now().Before(k.until[button])
}

func (k *keyButtons) Levels() clockbox.Inputs {
	k.mu.Lock()
	defer k.mu.Unlock()
	return clockbox.Inputs{
		Reset: k.down("reset"),
		Power: k.down("power"),
		Mode:  k.down("mode"),
		Start: k.down("start"),
		Stop:  k.down("stop"),
	}
}

// textScreen is a runner.Sink that integrates the scan into per-LED duty
// and redraws the terminal once per window.
type textScreen struct {
	window int

	mu      sync.Mutex
	caption string

	on     [display.Columns][display.Rows]int
	active [display.Columns]int
	ticks  int
}

func (t *textScreen) SetCaption(caption string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.caption = caption
}

func (t *textScreen) Drive(out clockbox.Outputs) error {
	if int(out.Column) < display.Columns {
		t.active[out.Column]++
		for r := 0; r < display.Rows; r++ {
			if out.Rows&(1<<r) != 0 {
				t.on[out.Column][r]++
			}
		}
	}
	t.ticks++
	if t.ticks < t.window {
		return nil
	}
	t.draw()
	t.on = [display.Columns][display.Rows]int{}
	t.active = [display.Columns]int{}
	t.ticks = 0
	return nil
}

func (t *textScreen) draw() {
	var b strings.Builder
	b.WriteString("\x1b[2J\x1b[H") // clear, home
	for r := 0; r < display.Rows; r++ {
		for c := 0; c < display.Columns; c++ {
			duty := 0
			if t.active[c] > 0 {
				duty = 10 * t.on[c][r] / t.active[c]
			}
			switch {
			case duty == 0:
				b.WriteString("  ")
			case duty < 4:
				b.WriteString(" .")
			case duty < 8:
				b.WriteString(" o")
			default:
				b.WriteString(" #")
			}
		}
		b.WriteString("\r\n")
	}
	t.mu.Lock()
	caption := t.caption
	t.mu.Unlock()
	fmt.Fprintf(os.Stdout, "%s\r\n%s\r\n[p]ower [m]ode [s]tart s[t]op  M/T=hold  r=reset  q=quit\r\n", b.String(), caption)
}

func main() {
	flag.Parse()

	t, err := term.Open(*tty, term.RawMode)
	if err != nil {
		log.Fatalf("open %s: %v", *tty, err)
	}
	defer t.Restore()

	timing := clockbox.Timing{TickRate: *tickRate}
	box := clockbox.New(timing)
	buttons := newKeyButtons()
	scr := &textScreen{window: timing.TickRate / 5}
	scr.SetCaption("clock")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := t.Read(buf); err != nil {
				cancel()
				return
			}
			switch buf[0] {
			case 'p':
				buttons.press("power", tapDuration)
			case 'm':
				buttons.press("mode", tapDuration)
			case 's':
				buttons.press("start", tapDuration)
			case 't':
				buttons.press("stop", tapDuration)
			case 'M':
				buttons.press("mode", holdDuration)
			case 'T':
				buttons.press("stop", holdDuration)
			case 'r':
				buttons.press("reset", 50*time.Millisecond)
			case 'q', 3: // ctrl-c
				cancel()
				return
			}
		}
	}()

	r := &runner.Runner{
		Box:     box,
		Timing:  timing,
		Buttons: buttons,
		Sink:    scr,
		Observer: func(ev clockbox.Events) {
			scr.SetCaption(fmt.Sprintf("%v  brightness=%v", ev.Mode, box.Brightness()))
		},
	}
	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		t.Restore()
		log.Fatalf("runner: %v", err)
	}
}
