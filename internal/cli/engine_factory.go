package cli

import (
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
)

// engineOptions maps configuration onto engine options.
func engineOptions(cfg config.Config, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) []turing.Option {
	opts := []turing.Option{turing.WithLogger(logger)}
	if cfg.Seed != 0 {
		opts = append(opts, turing.WithSeed(cfg.Seed))
	}
	if debug {
		opts = append(opts, turing.WithLifecycleHooks(observability.DebugHooks(logger)))
	}
	for _, h := range hooks {
		opts = append(opts, turing.WithLifecycleHooks(h))
	}
	return opts
}

// createEngine initializes a machine with standard CLI conventions:
// the table is drawn at random when the configuration asks for it.
func createEngine(cfg config.Config, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) *turing.Engine {
	eng := turing.New(engineOptions(cfg, logger, debug, hooks...)...)
	eng.Reset(cfg.Random)
	return eng
}
