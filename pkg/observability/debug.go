package observability

import (
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(e *domain.StepEvent) {
			logger.Debug("Step",
				domain.KeyMachineID, e.MachineID,
				"tick", e.Tick,
				"position", e.Position,
				"from", e.From,
				"read", e.Read,
				"rule", e.Rule.String(),
			)
		},
		OnHalt: func(e *domain.StepEvent) {
			logger.Debug("Halt", domain.KeyMachineID, e.MachineID, "state", e.Rule.Next, "tick", e.Tick)
		},
		OnReset: func(e *domain.ResetEvent) {
			logger.Debug("Reset", domain.KeyMachineID, e.MachineID, "randomized", e.Randomized)
		},
		OnEdit: func(e *domain.EditEvent) {
			logger.Debug("Edit", domain.KeyMachineID, e.MachineID, "kind", e.Kind, "position", e.Position, "field", e.Field)
		},
	}
}
