package main

import (
	"path/filepath"
	"testing"

	"pairtrack/internal/testsupport"
)

func TestBuildSocketPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	got := buildSocketPath(cfg)
	want := filepath.Join(cfg.Paths.LogDir, "pairtrack.sock")
	if got != want {
		t.Fatalf("buildSocketPath = %q, want %q", got, want)
	}

	if got := buildSocketPath(nil); got != "pairtrack.sock" {
		t.Fatalf("buildSocketPath(nil) = %q, want %q", got, "pairtrack.sock")
	}
}
