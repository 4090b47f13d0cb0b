/*
Package turing simulates a single-tape Turing machine with a small fixed alphabet.

The machine owns a ring of 1024 cells, a head carrying one of sixteen working
states (a through p) or one of three halting states (H, A, R), and a dense
transition table with one rule per working state and symbol. A tick applies
the rule under the head (Step) and then moves the head (Move); a rule that
targets a halting state stops the machine without touching the tape.

# Concept

The core is synchronous and has no I/O. Hosts drive it: the interactive
terminal UI, the headless executor, the HTTP server and the MCP server all
share the same Engine, observe it through LifecycleHooks and serialize access
through session.Manager.

Illegal calls never panic. Stepping a halted machine, editing outside the
alphabet or parking the head off the tape are no-ops that report false.

# Usage

	package main

	import (
		"fmt"

		"github.com/aretw0/turing"
	)

	func main() {
		eng := turing.New(turing.WithSeed(7))
		eng.Reset(true) // draw a random table

		for i := 0; i < 10_000 && !eng.Halted(); i++ {
			eng.Advance()
		}

		snap := eng.Snapshot()
		fmt.Println(snap.Ticks, snap.State, eng.NonBlank())
	}
*/
package turing
