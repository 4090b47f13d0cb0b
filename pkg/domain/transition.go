package domain

import (
	"fmt"
	"strings"
)

// Rule is the action taken for one (working state, symbol) pair.
// Write and Move are ignored when Next is a halting state.
type Rule struct {
	Next  State     `json:"next"`
	Write Symbol    `json:"write"`
	Move  Direction `json:"move"`
}

// Halts reports whether applying r stops the machine.
func (r Rule) Halts() bool {
	return r.Next.IsHalting()
}

// String draws the rule the way the rule table does, e.g. "bXr" or "A".
func (r Rule) String() string {
	if r.Halts() {
		return string(r.Next.Glyph())
	}
	return string([]rune{r.Next.Glyph(), r.Write.Glyph(), r.Move.Glyph()})
}

// RuleField selects one editable field of a Rule.
type RuleField string

const (
	FieldNext  RuleField = "next"
	FieldWrite RuleField = "write"
	FieldMove  RuleField = "move"
)

// ParseRuleField accepts the field names and a few aliases ("state", "symbol", "direction").
func ParseRuleField(text string) (RuleField, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "next", "state", "next_state":
		return FieldNext, nil
	case "write", "symbol", "write_symbol":
		return FieldWrite, nil
	case "move", "direction", "move_direction":
		return FieldMove, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, text)
}

// Transition records one applied step.
type Transition struct {
	// Tick is the tick count after the step.
	Tick int `json:"tick"`

	// Position is the cell the head was over. Steps never move the head.
	Position int `json:"position"`

	From State  `json:"from"`
	Read Symbol `json:"read"`
	Rule Rule   `json:"rule"`

	// Halted is true when Rule.Next is a halting state; the tape was left untouched.
	Halted bool `json:"halted"`
}
