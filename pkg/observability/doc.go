/*
Package observability provides tools for monitoring the Turing engine.

Metrics turns lifecycle hooks and finished run records into Prometheus
collectors; the HTTP server exposes them on /metrics. DebugHooks logs every
engine event, which is what the --debug flag installs.
*/
package observability
