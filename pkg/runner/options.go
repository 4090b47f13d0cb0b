package runner

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithTickDelay paces the run. Zero runs as fast as possible.
func WithTickDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.TickDelay = d
	}
}

// WithMaxTicks bounds the number of ticks of one run. Zero means unlimited.
func WithMaxTicks(n int) Option {
	return func(r *Runner) {
		r.MaxTicks = n
	}
}

// WithStore configures the RunStore that receives finished runs.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithReporter configures how ticks and results are presented.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		r.Reporter = rep
	}
}

// WithLocker makes every tick hold l, so the machine can be edited
// concurrently (e.g. from a keyboard loop) between ticks.
func WithLocker(l sync.Locker) Option {
	return func(r *Runner) {
		r.Locker = l
	}
}

// WithIDGenerator replaces the UUID generator used for run IDs.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		r.newID = fn
	}
}

// WithClock replaces time.Now when timing runs.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
