package testsupport

import (
	"context"
	"testing"

	"pairtrack/internal/board"
	"pairtrack/internal/config"
	"pairtrack/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup. The
// store comes back seeded from the embedded catalog.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustGetPair fetches a pair by number and fails the test when it is absent.
func MustGetPair(t testing.TB, st *store.Store, pairNumber int) *board.Pair {
	t.Helper()

	pair, err := st.GetByNumber(context.Background(), pairNumber)
	if err != nil {
		t.Fatalf("store.GetByNumber: %v", err)
	}
	if pair == nil {
		t.Fatalf("pair %d missing from seeded store", pairNumber)
	}
	return pair
}
