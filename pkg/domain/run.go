package domain

import "time"

// StopReason explains why a continuous run ended.
type StopReason string

const (
	StopHalted    StopReason = "halted"    // A halting state was reached
	StopMaxTicks  StopReason = "max_ticks" // The tick budget was spent
	StopCancelled StopReason = "cancelled" // The host paused or shut down
)

// RunRecord summarises one continuous run of a machine.
// It deliberately carries outcomes only; rule sets are never persisted.
type RunRecord struct {
	ID         string        `json:"id"`
	MachineID  string        `json:"machine_id,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Randomized bool          `json:"randomized"`
	Seed       uint64        `json:"seed"`

	// Ticks counts the ticks taken during this run; TotalTicks is the machine's counter.
	Ticks      int        `json:"ticks"`
	TotalTicks int        `json:"total_ticks"`
	FinalState State      `json:"final_state"`
	Position   int        `json:"position"`
	Halted     bool       `json:"halted"`
	Reason     StopReason `json:"reason"`

	// NonBlank counts tape cells that are not Blank when the run stopped.
	NonBlank int `json:"non_blank"`
}
