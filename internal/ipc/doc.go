// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management, request/response DTOs, and the typed
// client mirroring every server method. Board DTOs are aliased from the api
// package so IPC and HTTP consumers see the same wire shapes.
package ipc
