// Package services defines shared utilities consumed by the board workflow
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp pair IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the taxonomy the API and CLI surface (validation, not found,
//     transport, divergence).
//
// Use these helpers when wiring new board or delivery logic so operational
// behaviour stays uniform across the daemon.
package services
