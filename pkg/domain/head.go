package domain

// Head is the cursor over the tape. Use NewHead for a usable value.
type Head struct {
	position  int
	state     State
	direction Direction
}

// NewHead returns a head parked at the middle of the tape, in StateA, facing Left.
// The direction carries no meaning until the first step overwrites it.
func NewHead() Head {
	return Head{
		position:  TapeSize / 2,
		state:     StateA,
		direction: Left,
	}
}

// Reset restores the values NewHead returns.
func (h *Head) Reset() {
	*h = NewHead()
}

// Move shifts the head one cell along its pending direction, wrapping at either end.
func (h *Head) Move() {
	if h.direction == Left {
		h.position--
	} else {
		h.position++
	}
	if h.position > TapeSize-1 {
		h.position = 0
	}
	if h.position < 0 {
		h.position = TapeSize - 1
	}
}

// SetState replaces the current state. Unknown states are ignored.
func (h *Head) SetState(s State) bool {
	if !s.Valid() {
		return false
	}
	h.state = s
	return true
}

// SetDirection replaces the pending direction. Unknown directions are ignored.
func (h *Head) SetDirection(d Direction) bool {
	if !d.Valid() {
		return false
	}
	h.direction = d
	return true
}

// SetPosition parks the head on a cell without wrapping.
// Positions outside [0, TapeSize) are rejected.
func (h *Head) SetPosition(position int) bool {
	if !InRange(position) {
		return false
	}
	h.position = position
	return true
}

func (h Head) Position() int {
	return h.position
}

func (h Head) State() State {
	return h.state
}

func (h Head) Direction() Direction {
	return h.direction
}
