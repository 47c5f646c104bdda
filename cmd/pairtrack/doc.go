// Command pairtrack is the CLI for the pairtrack daemon. It talks to the
// daemon over a Unix socket and exposes board listing, pair editing, stage
// moves, approval, reshoot, and delivery workflows.
package main
