/*
Package domain contains the core models of the Turing machine explorer.

It defines the closed alphabet of the machine (Symbols, States and Directions),
the storage types the engine owns (Tape, Head and Table) and the values the
engine hands out to its hosts (Snapshot, Transition and lifecycle events).
This package is kept pure and free of I/O, randomness sources or persistence.

# Key Entities

  - Symbol: one of the six tape symbols (Blank, Cross, Asterisk, Ampersand, Zero, One).
  - State: one of sixteen working states (a to p) or the halting states Halt, Accept and Reject.
  - Tape: a fixed ring of TapeSize cells. Positions wrap around both ends.
  - Head: the cursor over the tape holding position, state and pending direction.
  - Table: the dense rule set mapping (working state, symbol) to a Rule.
  - Snapshot: a detached copy of a whole machine, used by renderers and transports.

# Illegal calls

Every operation on these types is total. Operations that receive a value outside
their domain (a halting state for a lookup, an unknown symbol, a head position off
the tape) do nothing and report false instead of panicking or returning an error.
*/
package domain
