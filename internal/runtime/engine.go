package runtime

import (
	"github.com/aretw0/turing/pkg/domain"
)

// Engine is the core machine: one tape, one head and one transition table.
// It is the only mutator of tape and head state while a run is in progress.
//
// Engine is not safe for concurrent use; its owner serializes access.
// Illegal calls (stepping a halted machine, editing outside the alphabet or
// off the tape) are no-ops that report false.
type Engine struct {
	tape  domain.Tape
	head  domain.Head
	table domain.Table
	rng   domain.Randomizer

	halted bool
	ticks  int
}

// NewEngine creates a machine in the ready phase with a deterministic table.
// rng is used by randomized resets; a nil rng makes every reset deterministic.
func NewEngine(rng domain.Randomizer) *Engine {
	e := &Engine{rng: rng}
	e.Reset(false)
	return e
}

// Reset returns the machine to the ready phase: blank tape, centred head in
// StateA, zero ticks and a rebuilt table.
func (e *Engine) Reset(randomized bool) {
	e.halted = false
	e.ticks = 0
	e.head.Reset()
	e.table.Reset(randomized, e.rng)
	e.tape.Reset()
}

// Step applies the rule for the current state and the symbol under the head.
//
// A halting target only changes the head state and raises the halted flag;
// the tape and the pending direction stay as they were. Any other target sets
// the pending direction and writes the rule's symbol. Step never moves the
// head; callers call Move afterwards while the machine is not halted.
//
// On a halted machine Step does nothing and returns ok == false.
func (e *Engine) Step() (domain.Transition, bool) {
	if e.halted {
		return domain.Transition{}, false
	}

	position := e.head.Position()
	current := e.tape.Read(position)
	state := e.head.State()

	rule, ok := e.table.Lookup(state, current)
	if !ok {
		return domain.Transition{}, false
	}

	e.head.SetState(rule.Next)
	if rule.Next.IsHalting() {
		e.halted = true
	} else {
		e.head.SetDirection(rule.Move)
		e.tape.Write(position, rule.Write)
	}
	e.ticks++

	return domain.Transition{
		Tick:     e.ticks,
		Position: position,
		From:     state,
		Read:     current,
		Rule:     rule,
		Halted:   e.halted,
	}, true
}

// Move advances the head one cell along its pending direction.
// It does nothing on a halted machine.
func (e *Engine) Move() bool {
	if e.halted {
		return false
	}
	e.head.Move()
	return true
}

// Advance performs one full tick: Step, then Move unless the step halted.
func (e *Engine) Advance() (domain.Transition, bool) {
	t, ok := e.Step()
	if ok && !t.Halted {
		e.head.Move()
	}
	return t, ok
}

func (e *Engine) Halted() bool {
	return e.halted
}

func (e *Engine) Ticks() int {
	return e.ticks
}

// Status derives the lifecycle phase from the run counters.
func (e *Engine) Status() domain.RunStatus {
	return domain.StatusOf(e.ticks, e.halted)
}

// Head returns a copy of the head.
func (e *Engine) Head() domain.Head {
	return e.head
}

// Read returns the symbol at position, wrapping around the ring.
func (e *Engine) Read(position int) domain.Symbol {
	return e.tape.Read(position)
}

// Lookup returns the rule for (s, sym); ok is false for halting states.
func (e *Engine) Lookup(s domain.State, sym domain.Symbol) (domain.Rule, bool) {
	return e.table.Lookup(s, sym)
}

// WriteCell overwrites a tape cell.
func (e *Engine) WriteCell(position int, sym domain.Symbol) bool {
	return e.tape.Write(position, sym)
}

// CycleCell advances the symbol of a tape cell over the alphabet.
func (e *Engine) CycleCell(position int) bool {
	return e.tape.Write(position, e.tape.Read(position).Next())
}

// SetPosition parks the head on a cell. It bypasses wrapping, so positions
// outside [0, TapeSize) are rejected.
func (e *Engine) SetPosition(position int) bool {
	return e.head.SetPosition(position)
}

// CycleRule advances one field of the rule for (s, sym).
func (e *Engine) CycleRule(s domain.State, sym domain.Symbol, field domain.RuleField) bool {
	return e.table.Cycle(s, sym, field)
}

func (e *Engine) CycleNextState(s domain.State, sym domain.Symbol) bool {
	return e.table.CycleNextState(s, sym)
}

func (e *Engine) CycleWriteSymbol(s domain.State, sym domain.Symbol) bool {
	return e.table.CycleWriteSymbol(s, sym)
}

func (e *Engine) CycleMoveDirection(s domain.State, sym domain.Symbol) bool {
	return e.table.CycleMoveDirection(s, sym)
}

// SetRule replaces a whole rule.
func (e *Engine) SetRule(s domain.State, sym domain.Symbol, r domain.Rule) bool {
	return e.table.Set(s, sym, r)
}

// NonBlank counts the tape cells that are not Blank.
func (e *Engine) NonBlank() int {
	return domain.TapeSize - e.tape.Count(domain.Blank)
}

// Snapshot copies the whole machine.
func (e *Engine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Status:    e.Status(),
		Ticks:     e.ticks,
		Halted:    e.halted,
		Position:  e.head.Position(),
		State:     e.head.State(),
		Direction: e.head.Direction(),
		Tape:      e.tape,
		Rules:     e.table.Rules(),
	}
}
