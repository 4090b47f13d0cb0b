package runner

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// Reporter defines how a run is presented.
// This allows switching between Text (CLI) and JSON (structured) output.
type Reporter interface {
	// Tick is called after every applied tick, while the machine lock is held.
	Tick(ctx context.Context, t domain.Transition) error

	// Finish is called once with the summary of the run.
	Finish(ctx context.Context, rec *domain.RunRecord) error
}

// ReporterFuncs adapts plain functions to a Reporter. Nil fields are skipped.
type ReporterFuncs struct {
	OnTick   func(ctx context.Context, t domain.Transition) error
	OnFinish func(ctx context.Context, rec *domain.RunRecord) error
}

func (f ReporterFuncs) Tick(ctx context.Context, t domain.Transition) error {
	if f.OnTick == nil {
		return nil
	}
	return f.OnTick(ctx, t)
}

func (f ReporterFuncs) Finish(ctx context.Context, rec *domain.RunRecord) error {
	if f.OnFinish == nil {
		return nil
	}
	return f.OnFinish(ctx, rec)
}
