package turing

import (
	_ "embed"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

//go:embed VERSION
var version string

// Version returns the release version of the module.
func Version() string {
	return strings.TrimSpace(version)
}

// Engine is the high-level entry point for the Turing library.
// It wraps the internal runtime, emits lifecycle events and owns the random
// source used by randomized resets.
//
// Engine is not safe for concurrent use. Hosts that share a machine across
// goroutines go through session.Manager.
type Engine struct {
	runtime    *runtime.Engine
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	rng        domain.Randomizer
	seed       uint64
	seeded     bool
	randomized bool

	// pcg backs rng unless WithRandSource replaced it. Every randomized reset
	// after the first reseeds it with the next value of seeds, so each table
	// is rebuilt by New(WithSeed(Seed())).Reset(true).
	pcg   *rand.PCG
	seeds *rand.Rand
	drawn bool

	// ID labels events and log lines. It is empty for standalone engines.
	ID string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hooks in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSeed makes randomized resets reproducible: the first random table is
// built from seed and later ones from a sequence seed also fixes.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithRandSource replaces the random source entirely. The recorded seed is
// then meaningless and Seed reports zero.
func WithRandSource(rng domain.Randomizer) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithID labels the engine, typically with its session ID.
func WithID(id string) Option {
	return func(e *Engine) {
		e.ID = id
	}
}

// New initializes a machine in the ready phase with the deterministic table.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.ID != "" {
		eng.logger = eng.logger.With(domain.KeyMachineID, eng.ID)
	}

	if eng.rng == nil {
		if !eng.seeded {
			eng.seed = rand.Uint64()
		}
		eng.seeds = rand.New(rand.NewPCG(eng.seed^seedMix, eng.seed))
		eng.pcg = rand.NewPCG(eng.seed, eng.seed^seedMix)
		eng.rng = rand.New(eng.pcg)
	} else if !eng.seeded {
		eng.seed = 0
	}

	eng.runtime = runtime.NewEngine(eng.rng)
	return eng
}

const seedMix = 0x9e3779b97f4a7c15

// Seed returns the seed the current random table was built from. It is
// zero when WithRandSource replaced the default source.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Randomized reports whether the last reset drew a random table.
func (e *Engine) Randomized() bool {
	return e.randomized
}

// Step applies one rule without moving the head.
// It returns false, and emits nothing, when the machine already halted.
func (e *Engine) Step() (domain.Transition, bool) {
	t, ok := e.runtime.Step()
	if ok {
		e.emitStep(t)
	}
	return t, ok
}

// Move advances the head along its pending direction.
func (e *Engine) Move() bool {
	return e.runtime.Move()
}

// Advance performs one full tick: Step, then Move unless the step halted.
func (e *Engine) Advance() (domain.Transition, bool) {
	t, ok := e.runtime.Advance()
	if ok {
		e.emitStep(t)
	}
	return t, ok
}

// Reset returns the machine to the ready phase.
func (e *Engine) Reset(randomized bool) {
	if randomized && e.pcg != nil {
		if e.drawn {
			e.seed = e.seeds.Uint64()
			e.pcg.Seed(e.seed, e.seed^seedMix)
		}
		e.drawn = true
	}
	e.runtime.Reset(randomized)
	e.randomized = randomized
	e.logger.Debug("machine reset", "randomized", randomized, "seed", e.seed)

	if e.hooks.OnReset != nil {
		e.hooks.OnReset(&domain.ResetEvent{
			EventBase:  e.base(domain.EventReset),
			Randomized: randomized,
		})
	}
}

// WriteCell overwrites one tape cell. The position wraps around the ring.
func (e *Engine) WriteCell(position int, sym domain.Symbol) bool {
	if !e.runtime.WriteCell(position, sym) {
		return false
	}
	e.emitEdit(&domain.EditEvent{Kind: domain.EditCell, Position: domain.Wrap(position), Symbol: sym})
	return true
}

// CycleCell advances one tape cell to the next symbol of the alphabet.
func (e *Engine) CycleCell(position int) bool {
	if !e.runtime.CycleCell(position) {
		return false
	}
	position = domain.Wrap(position)
	e.emitEdit(&domain.EditEvent{Kind: domain.EditCell, Position: position, Symbol: e.runtime.Read(position)})
	return true
}

// SetPosition parks the head on a cell in [0, TapeSize).
func (e *Engine) SetPosition(position int) bool {
	if !e.runtime.SetPosition(position) {
		return false
	}
	e.emitEdit(&domain.EditEvent{Kind: domain.EditHead, Position: position})
	return true
}

// CycleRule advances one field of the rule for (s, sym).
func (e *Engine) CycleRule(s domain.State, sym domain.Symbol, field domain.RuleField) bool {
	if !e.runtime.CycleRule(s, sym, field) {
		return false
	}
	rule, _ := e.runtime.Lookup(s, sym)
	e.emitEdit(&domain.EditEvent{Kind: domain.EditRule, State: s, Symbol: sym, Field: field, Rule: &rule})
	return true
}

// SetRule replaces the rule for (s, sym).
func (e *Engine) SetRule(s domain.State, sym domain.Symbol, r domain.Rule) bool {
	if !e.runtime.SetRule(s, sym, r) {
		return false
	}
	e.emitEdit(&domain.EditEvent{Kind: domain.EditRule, State: s, Symbol: sym, Rule: &r})
	return true
}

func (e *Engine) Halted() bool {
	return e.runtime.Halted()
}

func (e *Engine) Ticks() int {
	return e.runtime.Ticks()
}

func (e *Engine) Status() domain.RunStatus {
	return e.runtime.Status()
}

func (e *Engine) Head() domain.Head {
	return e.runtime.Head()
}

func (e *Engine) Read(position int) domain.Symbol {
	return e.runtime.Read(position)
}

func (e *Engine) Lookup(s domain.State, sym domain.Symbol) (domain.Rule, bool) {
	return e.runtime.Lookup(s, sym)
}

// NonBlank counts the tape cells that are not Blank.
func (e *Engine) NonBlank() int {
	return e.runtime.NonBlank()
}

// Snapshot returns a detached copy of the machine labelled with the engine ID.
func (e *Engine) Snapshot() domain.Snapshot {
	snap := e.runtime.Snapshot()
	snap.ID = e.ID
	return snap
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, MachineID: e.ID}
}

func (e *Engine) emitStep(t domain.Transition) {
	if t.Halted {
		e.logger.Debug("machine halted", "tick", t.Tick, "state", t.Rule.Next, "position", t.Position)
	}

	if e.hooks.OnStep == nil && e.hooks.OnHalt == nil {
		return
	}
	ev := &domain.StepEvent{EventBase: e.base(domain.EventStep), Transition: t}
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ev)
	}
	if t.Halted && e.hooks.OnHalt != nil {
		halt := *ev
		halt.Type = domain.EventHalt
		e.hooks.OnHalt(&halt)
	}
}

func (e *Engine) emitEdit(ev *domain.EditEvent) {
	ev.EventBase = e.base(domain.EventEdit)
	e.logger.Debug("machine edited", "kind", ev.Kind, "position", ev.Position)
	if e.hooks.OnEdit != nil {
		e.hooks.OnEdit(ev)
	}
}
