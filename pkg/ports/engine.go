package ports

import "github.com/aretw0/turing/pkg/domain"

// Machine is the part of the engine that hosts drive during a continuous run.
// *turing.Engine implements it.
type Machine interface {
	// Advance performs one tick; ok is false when the machine already halted.
	Advance() (t domain.Transition, ok bool)

	Halted() bool
	Ticks() int
	NonBlank() int

	// Snapshot returns a detached copy of the machine.
	Snapshot() domain.Snapshot

	// Seed and Randomized describe how the current table was built.
	Seed() uint64
	Randomized() bool
}
