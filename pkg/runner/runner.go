package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
)

// Runner drives a machine tick after tick.
type Runner struct {
	// TickDelay is the pause between two ticks.
	TickDelay time.Duration

	// MaxTicks bounds one run. Zero means unlimited.
	MaxTicks int

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store receives the record of every finished run.
	// If nil, runs are not persisted.
	Store ports.RunStore

	// Reporter presents ticks and results. Optional.
	Reporter Reporter

	// Locker is held around each tick and the final snapshot. Optional.
	Locker sync.Locker

	newID func() string
	now   func() time.Time
}

// NewRunner creates a Runner that ticks without delay or limit.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Run ticks m until it halts, MaxTicks ticks were taken or ctx is done.
// Cancellation is a normal way to stop (pause) and is reported through
// the record's Reason, not as an error. Errors come from the Reporter or
// the Store.
func (r *Runner) Run(ctx context.Context, m ports.Machine) (*domain.RunRecord, error) {
	locker := r.Locker
	if locker == nil {
		locker = nopLocker{}
	}

	rec := &domain.RunRecord{
		ID:        r.newID(),
		StartedAt: r.now(),
	}
	logger := r.Logger.With(domain.KeyRunID, rec.ID)

	var ticker *time.Ticker
	if r.TickDelay > 0 {
		ticker = time.NewTicker(r.TickDelay)
		defer ticker.Stop()
	}

	logger.Debug("run started", "tick_delay", r.TickDelay, "max_ticks", r.MaxTicks)

	reason, err := r.loop(ctx, m, locker, ticker, rec)
	if err != nil {
		return nil, err
	}

	locker.Lock()
	r.finish(rec, m, reason)
	locker.Unlock()

	logger.Info("run finished",
		domain.KeyMachineID, rec.MachineID,
		"reason", rec.Reason,
		"ticks", rec.Ticks,
		"state", rec.FinalState,
		"duration", rec.Duration,
	)

	if r.Reporter != nil {
		if err := r.Reporter.Finish(ctx, rec); err != nil {
			return rec, fmt.Errorf("failed to report run: %w", err)
		}
	}

	if r.Store != nil {
		// The run may have been stopped by ctx; the record is still worth keeping.
		if err := r.Store.Save(context.WithoutCancel(ctx), rec); err != nil {
			return rec, fmt.Errorf("failed to save run %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func (r *Runner) loop(ctx context.Context, m ports.Machine, locker sync.Locker, ticker *time.Ticker, rec *domain.RunRecord) (domain.StopReason, error) {
	for {
		if ctx.Err() != nil {
			return domain.StopCancelled, nil
		}
		if r.MaxTicks > 0 && rec.Ticks >= r.MaxTicks {
			return domain.StopMaxTicks, nil
		}

		locker.Lock()
		t, ok := m.Advance()
		var err error
		if ok && r.Reporter != nil {
			err = r.Reporter.Tick(ctx, t)
		}
		locker.Unlock()

		if err != nil {
			return "", fmt.Errorf("failed to report tick: %w", err)
		}
		if !ok {
			return domain.StopHalted, nil
		}
		rec.Ticks++
		if t.Halted {
			return domain.StopHalted, nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return domain.StopCancelled, nil
			case <-ticker.C:
			}
		}
	}
}

func (r *Runner) finish(rec *domain.RunRecord, m ports.Machine, reason domain.StopReason) {
	snap := m.Snapshot()

	rec.FinishedAt = r.now()
	rec.Duration = rec.FinishedAt.Sub(rec.StartedAt)
	rec.MachineID = snap.ID
	rec.Randomized = m.Randomized()
	rec.Seed = m.Seed()
	rec.TotalTicks = snap.Ticks
	rec.FinalState = snap.State
	rec.Position = snap.Position
	rec.Halted = snap.Halted
	rec.Reason = reason
	rec.NonBlank = m.NonBlank()
}
