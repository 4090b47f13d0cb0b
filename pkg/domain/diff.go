package domain

// SnapshotDiff represents the changes between two snapshots of the same machine.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// ID is always present to identify the target.
	ID string `json:"id"`

	Status    *RunStatus `json:"status,omitempty"`
	Ticks     *int       `json:"ticks,omitempty"`
	Halted    *bool      `json:"halted,omitempty"`
	Position  *int       `json:"position,omitempty"`
	State     *State     `json:"state,omitempty"`
	Direction *Direction `json:"direction,omitempty"`

	// Cells maps changed tape positions to their new symbol.
	Cells map[int]Symbol `json:"cells,omitempty"`

	// Rules lists the rules whose value changed.
	Rules []RuleChange `json:"rules,omitempty"`
}

// RuleChange is one rule update inside a SnapshotDiff.
type RuleChange struct {
	State  State  `json:"state"`
	Symbol Symbol `json:"symbol"`
	Rule   Rule   `json:"rule"`
}

// Diff calculates the difference between prev and next.
// A nil prev yields a diff carrying the scalar fields of next (initial load).
// It returns nil when nothing changed.
func Diff(prev, next *Snapshot) *SnapshotDiff {
	if next == nil {
		return nil
	}

	diff := &SnapshotDiff{ID: next.ID}
	changed := false

	if prev == nil || prev.Status != next.Status {
		diff.Status = &next.Status
		changed = true
	}
	if prev == nil || prev.Ticks != next.Ticks {
		diff.Ticks = &next.Ticks
		changed = true
	}
	if prev == nil || prev.Halted != next.Halted {
		diff.Halted = &next.Halted
		changed = true
	}
	if prev == nil || prev.Position != next.Position {
		diff.Position = &next.Position
		changed = true
	}
	if prev == nil || prev.State != next.State {
		diff.State = &next.State
		changed = true
	}
	if prev == nil || prev.Direction != next.Direction {
		diff.Direction = &next.Direction
		changed = true
	}

	if prev != nil {
		for i := 0; i < TapeSize; i++ {
			if prev.Tape.cells[i] != next.Tape.cells[i] {
				if diff.Cells == nil {
					diff.Cells = make(map[int]Symbol)
				}
				diff.Cells[i] = next.Tape.cells[i]
			}
		}
		for i := 0; i < NumWorkingStates; i++ {
			for j := 0; j < NumSymbols; j++ {
				if prev.Rules[i][j] != next.Rules[i][j] {
					diff.Rules = append(diff.Rules, RuleChange{
						State:  State(i),
						Symbol: Symbol(j),
						Rule:   next.Rules[i][j],
					})
				}
			}
		}
	}

	if !changed && len(diff.Cells) == 0 && len(diff.Rules) == 0 {
		return nil
	}
	return diff
}
