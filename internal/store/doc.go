// Package store persists the board in SQLite. The database is a versioned
// snapshot: schema changes bump the store version and a mismatch discards
// and reseeds the data rather than migrating it.
package store
