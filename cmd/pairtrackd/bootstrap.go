package main

import (
	"path/filepath"

	"pairtrack/internal/config"
)

func buildSocketPath(cfg *config.Config) string {
	if cfg == nil {
		return filepath.Join("", "pairtrack.sock")
	}
	return filepath.Join(cfg.Paths.LogDir, "pairtrack.sock")
}
