// Package logging builds the slog loggers used across the daemon and CLI.
//
// It provides a console handler with compact key=value output, a JSON handler
// for machine consumption, attr helpers so call sites stay terse, and a no-op
// logger for tests. Standardized field keys (component, pair_id, stage,
// correlation_id) keep log lines filterable across components.
package logging
