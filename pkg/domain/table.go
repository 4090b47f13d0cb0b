package domain

// Randomizer is the source of uniform integers used to build random tables.
// *math/rand/v2.Rand satisfies it.
type Randomizer interface {
	IntN(n int) int
}

// DefaultRule is the rule every cell holds after a deterministic reset.
var DefaultRule = Rule{Next: StateA, Write: Blank, Move: Left}

// Rules is the dense rule grid, indexed by working state then symbol.
type Rules [NumWorkingStates][NumSymbols]Rule

// Table is the transition table of the machine.
type Table struct {
	rules Rules
}

// Reset rebuilds every rule. With randomized unset (or a nil source) every
// rule becomes DefaultRule; otherwise Next is drawn from all NumStates states,
// Write from the alphabet and Move from both directions.
func (t *Table) Reset(randomized bool, rng Randomizer) {
	for i := 0; i < NumWorkingStates; i++ {
		for j := 0; j < NumSymbols; j++ {
			if !randomized || rng == nil {
				t.rules[i][j] = DefaultRule
				continue
			}
			t.rules[i][j] = Rule{
				Next:  State(rng.IntN(NumStates)),
				Write: Symbol(rng.IntN(NumSymbols)),
				Move:  Direction(rng.IntN(NumDirections)),
			}
		}
	}
}

func addressable(s State, sym Symbol) bool {
	return s.IsWorking() && sym.Valid()
}

// Lookup returns the rule for (s, sym). ok is false for halting or unknown states.
func (t *Table) Lookup(s State, sym Symbol) (Rule, bool) {
	if !addressable(s, sym) {
		return Rule{}, false
	}
	return t.rules[s][sym], true
}

// Set replaces a whole rule. Rules holding unknown values are rejected.
func (t *Table) Set(s State, sym Symbol, r Rule) bool {
	if !addressable(s, sym) || !r.Next.Valid() || !r.Write.Valid() || !r.Move.Valid() {
		return false
	}
	t.rules[s][sym] = r
	return true
}

// CycleNextState advances the rule's next state over all NumStates states.
func (t *Table) CycleNextState(s State, sym Symbol) bool {
	if !addressable(s, sym) {
		return false
	}
	r := &t.rules[s][sym]
	r.Next = r.Next.Next()
	return true
}

// CycleWriteSymbol advances the rule's written symbol over the alphabet.
func (t *Table) CycleWriteSymbol(s State, sym Symbol) bool {
	if !addressable(s, sym) {
		return false
	}
	r := &t.rules[s][sym]
	r.Write = r.Write.Next()
	return true
}

// CycleMoveDirection toggles the rule's direction.
func (t *Table) CycleMoveDirection(s State, sym Symbol) bool {
	if !addressable(s, sym) {
		return false
	}
	r := &t.rules[s][sym]
	r.Move = r.Move.Next()
	return true
}

// Cycle dispatches to the cycling operation for field.
func (t *Table) Cycle(s State, sym Symbol, field RuleField) bool {
	switch field {
	case FieldNext:
		return t.CycleNextState(s, sym)
	case FieldWrite:
		return t.CycleWriteSymbol(s, sym)
	case FieldMove:
		return t.CycleMoveDirection(s, sym)
	}
	return false
}

// Rules returns a copy of the grid.
func (t *Table) Rules() Rules {
	return t.rules
}
