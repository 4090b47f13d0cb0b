/*
Package session keeps the live machines of a process.

A Manager hands out machine IDs, owns the engines and serializes every
operation on a machine behind a per-machine mutex, so transports (HTTP, MCP)
can share machines between concurrent requests. Locks are reference counted
and released once no caller holds them.
*/
package session
