package domain

import "errors"

// ErrMachineNotFound is returned when a machine ID is not held by the session manager.
var ErrMachineNotFound = errors.New("machine not found")

// ErrRunNotFound is returned when a run record cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrHalted is returned by hosts that refuse to drive a machine that already halted.
var ErrHalted = errors.New("machine halted")

var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrUnknownState       = errors.New("unknown state")
	ErrUnknownDirection   = errors.New("unknown direction")
	ErrUnknownField       = errors.New("unknown rule field")
	ErrPositionOutOfRange = errors.New("position out of range")
)
