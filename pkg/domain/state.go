package domain

import (
	"fmt"
	"strings"
)

// State is a machine state. The first NumWorkingStates values are working
// states; Halt, Accept and Reject are terminal and own no rules.
type State uint8

const (
	StateA State = iota
	StateB
	StateC
	StateD
	StateE
	StateF
	StateG
	StateH
	StateI
	StateJ
	StateK
	StateL
	StateM
	StateN
	StateO
	StateP
	Halt
	Accept
	Reject
)

// StateFromOrdinal converts an ordinal into a State.
func StateFromOrdinal(i int) (State, bool) {
	if i < 0 || i >= NumStates {
		return StateA, false
	}
	return State(i), true
}

// Valid reports whether s is one of the NumStates states.
func (s State) Valid() bool {
	return s < NumStates
}

// IsHalting reports whether s is Halt, Accept or Reject.
func (s State) IsHalting() bool {
	return s >= Halt && s <= Reject
}

// IsWorking reports whether s may appear as the current state of a rule lookup.
func (s State) IsWorking() bool {
	return s < NumWorkingStates
}

// Ordinal returns the dense index of s.
func (s State) Ordinal() int {
	return int(s)
}

// Next returns the following state over all NumStates values, wrapping after Reject.
func (s State) Next() State {
	return State((int(s) + 1) % NumStates)
}

// Glyph returns 'a'..'p' for working states and 'H', 'A', 'R' for halting ones.
func (s State) Glyph() rune {
	switch {
	case s.IsWorking():
		return 'a' + rune(s)
	case s == Halt:
		return 'H'
	case s == Accept:
		return 'A'
	case s == Reject:
		return 'R'
	}
	return '?'
}

func (s State) String() string {
	switch {
	case s.IsWorking():
		return string(s.Glyph())
	case s == Halt:
		return "halt"
	case s == Accept:
		return "accept"
	case s == Reject:
		return "reject"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseState accepts a glyph ("c", "A") or a name ("accept").
// Single characters are matched case-sensitively since "a" and "A" differ.
func ParseState(text string) (State, error) {
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) == 1 {
		for i := 0; i < NumStates; i++ {
			if State(i).Glyph() == r[0] {
				return State(i), nil
			}
		}
	}
	switch strings.ToLower(text) {
	case "halt":
		return Halt, nil
	case "accept":
		return Accept, nil
	case "reject":
		return Reject, nil
	}
	return StateA, fmt.Errorf("%w: %q", ErrUnknownState, text)
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything ParseState accepts.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RunStatus is the lifecycle phase of a machine between resets.
type RunStatus string

const (
	StatusReady   RunStatus = "ready"   // Just reset, no tick taken
	StatusRunning RunStatus = "running" // At least one tick taken, not halted
	StatusHalted  RunStatus = "halted"  // Halting state reached; terminal until reset
)
