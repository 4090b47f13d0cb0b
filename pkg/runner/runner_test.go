package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// haltingEngine writes n crosses moving right, then halts in Accept.
func haltingEngine(t *testing.T, n int) *turing.Engine {
	t.Helper()
	eng := turing.New(turing.WithID("m-1"), turing.WithSeed(3))
	states := []domain.State{domain.StateA, domain.StateB, domain.StateC, domain.StateD, domain.StateE}
	require.Less(t, n, len(states))
	for i := 0; i < n; i++ {
		require.True(t, eng.SetRule(states[i], domain.Blank, domain.Rule{Next: states[i+1], Write: domain.Cross, Move: domain.Right}))
	}
	require.True(t, eng.SetRule(states[n], domain.Blank, domain.Rule{Next: domain.Accept}))
	return eng
}

func TestRunner_RunToHalt(t *testing.T) {
	store := memory.NewStore()
	eng := haltingEngine(t, 3)

	r := runner.NewRunner(
		runner.WithStore(store),
		runner.WithIDGenerator(func() string { return "run-1" }),
	)
	rec, err := r.Run(context.Background(), eng)
	require.NoError(t, err)

	assert.Equal(t, "run-1", rec.ID)
	assert.Equal(t, "m-1", rec.MachineID)
	assert.Equal(t, domain.StopHalted, rec.Reason)
	assert.Equal(t, 4, rec.Ticks)
	assert.Equal(t, 4, rec.TotalTicks)
	assert.True(t, rec.Halted)
	assert.Equal(t, domain.Accept, rec.FinalState)
	assert.Equal(t, domain.TapeSize/2+3, rec.Position)
	assert.Equal(t, 3, rec.NonBlank)
	assert.Equal(t, uint64(3), rec.Seed)

	saved, err := store.Load(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Ticks, saved.Ticks)
}

func TestRunner_AlreadyHalted(t *testing.T) {
	eng := haltingEngine(t, 0)
	eng.Advance()
	require.True(t, eng.Halted())

	rec, err := runner.NewRunner().Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, domain.StopHalted, rec.Reason)
	assert.Equal(t, 0, rec.Ticks)
	assert.Equal(t, 1, rec.TotalTicks)
}

func TestRunner_MaxTicks(t *testing.T) {
	eng := turing.New() // the default table never halts

	rec, err := runner.NewRunner(runner.WithMaxTicks(100)).Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, domain.StopMaxTicks, rec.Reason)
	assert.Equal(t, 100, rec.Ticks)
	assert.False(t, rec.Halted)

	// A second run continues from where the first stopped.
	rec, err = runner.NewRunner(runner.WithMaxTicks(50)).Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, 50, rec.Ticks)
	assert.Equal(t, 150, rec.TotalTicks)
}

func TestRunner_CancelPauses(t *testing.T) {
	eng := turing.New()
	ctx, cancel := context.WithCancel(context.Background())

	ticks := 0
	rep := runner.ReporterFuncs{
		OnTick: func(ctx context.Context, tr domain.Transition) error {
			ticks++
			if ticks == 5 {
				cancel()
			}
			return nil
		},
	}

	rec, err := runner.NewRunner(
		runner.WithTickDelay(time.Millisecond),
		runner.WithReporter(rep),
	).Run(ctx, eng)
	require.NoError(t, err)
	assert.Equal(t, domain.StopCancelled, rec.Reason)
	assert.Equal(t, 5, rec.Ticks)
	assert.Equal(t, 5, eng.Ticks())
}

func TestRunner_TickDelay(t *testing.T) {
	eng := turing.New()
	start := time.Now()

	_, err := runner.NewRunner(
		runner.WithTickDelay(5*time.Millisecond),
		runner.WithMaxTicks(4),
	).Run(context.Background(), eng)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestRunner_ReporterErrorStops(t *testing.T) {
	boom := errors.New("boom")
	rep := runner.ReporterFuncs{
		OnTick: func(context.Context, domain.Transition) error { return boom },
	}
	_, err := runner.NewRunner(runner.WithReporter(rep)).Run(context.Background(), turing.New())
	assert.ErrorIs(t, err, boom)
}

type failingStore struct{ *memory.Store }

func (failingStore) Save(context.Context, *domain.RunRecord) error { return errors.New("disk full") }

func TestRunner_StoreError(t *testing.T) {
	rec, err := runner.NewRunner(
		runner.WithStore(failingStore{memory.NewStore()}),
		runner.WithMaxTicks(1),
	).Run(context.Background(), turing.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, rec, "the record is still returned")
}

func TestRunner_ClockAndLocker(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	var mu sync.Mutex
	eng := turing.New()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Edits from another goroutine interleave safely between ticks.
		for i := 0; i < 20; i++ {
			mu.Lock()
			eng.CycleCell(0)
			mu.Unlock()
		}
	}()

	rec, err := runner.NewRunner(
		runner.WithClock(clock),
		runner.WithLocker(&mu),
		runner.WithMaxTicks(200),
	).Run(context.Background(), eng)
	<-done
	require.NoError(t, err)
	assert.Equal(t, time.Second, rec.Duration)
	assert.Equal(t, 200, rec.Ticks)
}
