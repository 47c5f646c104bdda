// Package sync owns the outbound call queue: partial patches, delivery
// triggers, and description syncs all flow through one dispatcher so call
// sites stay free of transport concerns. The queue is ordered and
// best-effort; a failed call is logged and swallowed unless the submitter
// asked for the outcome.
package sync
