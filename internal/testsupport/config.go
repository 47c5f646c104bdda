package testsupport

import (
	"path/filepath"
	"testing"

	"pairtrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.AssetsDir = filepath.Join(base, "assets")
	cfg.Paths.ClientDir = filepath.Join(base, "client")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithGateway points delivery calls at an HTTP gateway instead of the local
// filesystem implementation.
func WithGateway(url, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gateway.URL = url
		cfg.Gateway.Token = token
	}
}

// WithRoster overrides the assignee roster on the test config.
func WithRoster(names ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Board.Roster = names
	}
}
