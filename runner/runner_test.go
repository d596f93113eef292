package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clockbox/clockbox"
)

type countingSink struct {
	mu    sync.Mutex
	ticks int
}

func (s *countingSink) Drive(clockbox.Outputs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
	return nil
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func TestRunKeepsPace(t *testing.T) {
	timing := clockbox.Timing{TickRate: 200}
	sink := &countingSink{}
	r := &Runner{
		Box:    clockbox.New(timing),
		Timing: timing,
		Sink:   sink,
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		errCh <- r.Run(ctx)
	}()

	time.Sleep(500 * time.Millisecond)
	cancel()

	select {
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for runner to stop")
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error after cancel: %v", err)
		}
	}

	// 500ms at 200 ticks/s is 100 ticks; allow generous scheduler slop
	// in both directions.
	got := sink.count()
	if got < 50 || got > 150 {
		t.Errorf("ticks delivered in 500ms:\n  got: %v\n want: about 100", got)
	}
}

type failingSink struct{}

func (failingSink) Drive(clockbox.Outputs) error {
	return errors.New("display fell off")
}

func TestRunStopsOnSinkError(t *testing.T) {
	timing := clockbox.Timing{TickRate: 200}
	r := &Runner{
		Box:    clockbox.New(timing),
		Timing: timing,
		Sink:   failingSink{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := r.Run(ctx)
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("sink error not propagated:\n  got: %v", err)
	}
}

type heldButtons struct{}

func (heldButtons) Levels() clockbox.Inputs {
	return clockbox.Inputs{Power: true}
}

func TestObserverSeesPulses(t *testing.T) {
	timing := clockbox.Timing{TickRate: 200}
	var mu sync.Mutex
	var pulses []clockbox.Events

	r := &Runner{
		Box:     clockbox.New(timing),
		Timing:  timing,
		Buttons: heldButtons{},
		Observer: func(ev clockbox.Events) {
			mu.Lock()
			pulses = append(pulses, ev)
			mu.Unlock()
		},
	}

	// The power line is held the whole run, so no release and no pulse;
	// this only checks that the observer wiring does not fire spuriously.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	for _, ev := range pulses {
		if ev.PowerPressed {
			t.Error("pressed pulse while the button was never released")
		}
	}
}
