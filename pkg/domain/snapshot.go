package domain

// Snapshot is a detached copy of a whole machine.
// Mutating a Snapshot never affects the engine it came from.
type Snapshot struct {
	ID        string    `json:"id,omitempty"`
	Status    RunStatus `json:"status"`
	Ticks     int       `json:"ticks"`
	Halted    bool      `json:"halted"`
	Position  int       `json:"position"`
	State     State     `json:"state"`
	Direction Direction `json:"direction"`
	Tape      Tape      `json:"tape"`
	Rules     Rules     `json:"rules"`
}

// Current returns the symbol under the head.
func (s *Snapshot) Current() Symbol {
	return s.Tape.Read(s.Position)
}

// CurrentRule returns the rule the next step would apply.
// ok is false once the machine sits in a halting state.
func (s *Snapshot) CurrentRule() (Rule, bool) {
	sym := s.Current()
	if !addressable(s.State, sym) {
		return Rule{}, false
	}
	return s.Rules[s.State][sym], true
}

// StatusOf derives the lifecycle phase from the run counters.
func StatusOf(ticks int, halted bool) RunStatus {
	switch {
	case halted:
		return StatusHalted
	case ticks == 0:
		return StatusReady
	default:
		return StatusRunning
	}
}
