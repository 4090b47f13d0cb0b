package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
)

// ExecOptions configures a headless run.
type ExecOptions struct {
	Config config.Config
	Logger *slog.Logger
	Debug  bool
	Store  ports.RunStore

	// JSON switches the output to JSON lines.
	JSON bool

	// Trace prints every tick.
	Trace bool

	Output io.Writer
	Hooks  []domain.LifecycleHooks
}

// Exec resets a machine, runs it to a halt or the tick limit and prints
// the summary. Headless runs ignore the tick delay.
func Exec(ctx context.Context, opts ExecOptions) (*domain.RunRecord, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	eng := createEngine(opts.Config, opts.Logger, opts.Debug, opts.Hooks...)

	var rep runner.Reporter
	if opts.JSON {
		rep = runner.NewJSONReporter(opts.Output, opts.Trace)
	} else {
		rep = runner.NewTextReporter(opts.Output, runner.WithTrace(opts.Trace))
	}

	r := runner.NewRunner(
		runner.WithMaxTicks(opts.Config.MaxTicks),
		runner.WithStore(opts.Store),
		runner.WithLogger(opts.Logger),
		runner.WithReporter(rep),
	)
	return r.Run(ctx, eng)
}
