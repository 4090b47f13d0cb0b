package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventStep  EventType = "step"
	EventHalt  EventType = "halt"
	EventReset EventType = "reset"
	EventEdit  EventType = "edit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	MachineID string    `json:"machine_id,omitempty"`
}

// StepEvent is emitted after every applied step, halting ones included.
type StepEvent struct {
	EventBase
	Transition
}

// ResetEvent is emitted after the machine returns to the ready phase.
type ResetEvent struct {
	EventBase
	Randomized bool `json:"randomized"`
}

// EditKind names what a manual edit touched.
type EditKind string

const (
	EditCell EditKind = "cell"
	EditHead EditKind = "head"
	EditRule EditKind = "rule"
)

// EditEvent is emitted after a manual change to the tape, head or table.
// Only the fields relevant to Kind are set.
type EditEvent struct {
	EventBase
	Kind     EditKind  `json:"kind"`
	Position int       `json:"position,omitempty"`
	Symbol   Symbol    `json:"symbol"`
	State    State     `json:"state"`
	Field    RuleField `json:"field,omitempty"`
	Rule     *Rule     `json:"rule,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the goroutine driving the engine.
type LifecycleHooks struct {
	OnStep  func(*StepEvent)
	OnHalt  func(*StepEvent)
	OnReset func(*ResetEvent)
	OnEdit  func(*EditEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep:  chain(h.OnStep, other.OnStep),
		OnHalt:  chain(h.OnHalt, other.OnHalt),
		OnReset: chain(h.OnReset, other.OnReset),
		OnEdit:  chain(h.OnEdit, other.OnEdit),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
