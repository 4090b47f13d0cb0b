/*
Package ports defines the driven ports (interfaces) for the Turing engine.

These interfaces decouple hosts (runner, TUI, HTTP, MCP) from the concrete
engine and from the storage backends that keep run history.

# Key Interfaces

  - Machine: the tick-level view of an engine used by continuous runs.
  - RunStore: persists RunRecord outcomes (memory, file or redis).

RunRunStoreContract is a reusable test suite every RunStore adapter runs.
*/
package ports
