package domain

const (
	// TapeSize is the number of cells on the tape ring.
	TapeSize = 1024

	// NumSymbols is the size of the tape alphabet.
	NumSymbols = 6

	// NumWorkingStates is the number of non-halting states. Only these states own rules.
	NumWorkingStates = 16

	// NumStates counts every state, halting ones included.
	NumStates = NumWorkingStates + 3

	// NumDirections is the number of head directions.
	NumDirections = 2
)

// Field constants for JSON standardization across adapters.
const (
	KeyMachineID = "machine_id"
	KeyRunID     = "run_id"
)
