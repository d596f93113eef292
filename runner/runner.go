// Package runner steps the core against the wall clock.  The core itself
// has no idea what a second is; the runner owes it TickRate ticks per
// second and pays that debt in small batches so the scanned display stays
// smooth.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/clockbox/clockbox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clockbox_ticks_total",
		Help: "count of core ticks stepped",
	})

	behindSchedule = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clockbox_behind_schedule_total",
		Help: "count of batches that had to be capped because the runner fell behind the tick budget",
	})

	batchDelay = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clockbox_batch_delay_ns",
		Help:    "nanoseconds between a batch's deadline and when it actually ran",
		Buckets: prometheus.ExponentialBuckets(1000, 10, 10),
	})
)

// Buttons supplies the current raw button levels.  It is sampled once per
// batch; the core's own debouncing handles anything bouncier than that.
type Buttons interface {
	Levels() clockbox.Inputs
}

// Sink consumes the display lines, once per tick.
type Sink interface {
	Drive(clockbox.Outputs) error
}

// Runner drives a Box in real time.
type Runner struct {
	Box     *clockbox.Box
	Timing  clockbox.Timing
	Buttons Buttons // nil means no buttons are ever pressed
	Sink    Sink    // nil discards the display lines

	// Observer, if set, is called for every tick on which a conditioned
	// button pulse fired.
	Observer func(clockbox.Events)

	// BatchInterval is how often the core is caught up to the wall
	// clock.  Zero means 2ms.
	BatchInterval time.Duration
}

// Run steps the core until the context is cancelled.  Jitter in the host
// scheduler degrades display quality and (slightly) timekeeping, exactly
// as a sloppy oscillator would; it is reported via metrics, not errors.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.BatchInterval
	if interval <= 0 {
		interval = 2 * time.Millisecond
	}
	tickDur := time.Second / time.Duration(r.Timing.TickRate)
	if tickDur <= 0 {
		return fmt.Errorf("tick rate %d is too fast to schedule", r.Timing.TickRate)
	}
	// Never step more than a second's worth in one batch; if the host
	// stalls longer than that, the lost time stays lost.
	maxBatch := int64(r.Timing.TickRate)

	start := time.Now()
	deadline := start.Add(interval)
	var stepped int64
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for next batch: %w", ctx.Err())
		case <-time.After(time.Until(deadline)):
			batchDelay.Observe(float64(time.Since(deadline).Nanoseconds()))
		}

		owed := int64(time.Since(start)/tickDur) - stepped
		if owed > maxBatch {
			behindSchedule.Inc()
			stepped += owed - maxBatch
			owed = maxBatch
		}

		var in clockbox.Inputs
		if r.Buttons != nil {
			in = r.Buttons.Levels()
		}
		for i := int64(0); i < owed; i++ {
			out := r.Box.Step(in)
			if r.Observer != nil {
				if ev := r.Box.Events(); ev.Any() {
					r.Observer(ev)
				}
			}
			if r.Sink != nil {
				if err := r.Sink.Drive(out); err != nil {
					return fmt.Errorf("drive display: %w", err)
				}
			}
		}
		stepped += owed
		ticksTotal.Add(float64(owed))
		deadline = deadline.Add(interval)
	}
}
