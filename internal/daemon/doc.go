// Package daemon hosts the long-running pairtrack process: it owns the
// board store and outbound sync dispatcher, enforces single-instance
// execution with a file lock, and serves the HTTP API.
package daemon
