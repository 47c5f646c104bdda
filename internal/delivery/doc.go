// Package delivery copies a pair's finished assets into the client-facing
// location and mirrors description edits into the asset store. Two backends
// exist: a local filesystem copy and an HTTP gateway.
package delivery
