// Package api defines the transport DTOs shared by the HTTP API, the IPC
// channel, and the CLI, plus the BoardService that validates and executes
// board operations against the store, the sync dispatcher, and the delivery
// service.
package api
