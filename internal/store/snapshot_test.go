package store

import (
	"context"
	"path/filepath"
	"testing"

	"pairtrack/internal/board"
	"pairtrack/internal/config"
)

// snapshotConfig builds a throwaway config without pulling in testsupport,
// which itself depends on this package.
func snapshotConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.AssetsDir = filepath.Join(base, "assets")
	cfg.Paths.ClientDir = filepath.Join(base, "client")
	return &cfg
}

func TestVersionMismatchDiscardsSnapshot(t *testing.T) {
	cfg := snapshotConfig(t)
	st, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()

	pair, err := st.GetByNumber(ctx, 4)
	if err != nil || pair == nil {
		t.Fatalf("GetByNumber: %v %v", pair, err)
	}
	if _, err := st.Patch(ctx, pair.ID, map[string]any{"stage": "in_progress", "assignee": "Joy S."}, ""); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	// Simulate an older snapshot layout left behind by a previous build.
	if _, err := st.db.ExecContext(ctx, `UPDATE store_version SET version = ?`, storeVersion-1); err != nil {
		t.Fatalf("downgrade version: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetByNumber(ctx, 4)
	if err != nil || got == nil {
		t.Fatalf("GetByNumber after reseed: %v %v", got, err)
	}
	if got.Stage != board.StageNeedsAssignment || got.Assignee != "" {
		t.Fatalf("snapshot survived version mismatch: %+v", got)
	}

	history, err := reopened.History(ctx, got.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history survived reseed: %+v", history)
	}

	health, err := reopened.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if health.StoreVersion != storeVersion {
		t.Fatalf("store version %d", health.StoreVersion)
	}
}
