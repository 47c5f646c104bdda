package preflight

import (
	"context"

	"pairtrack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	// Asset library (when configured)
	if cfg.Paths.AssetsDir != "" {
		results = append(results, CheckDirectoryAccess("Assets directory", cfg.Paths.AssetsDir))
	}

	// Client delivery location (when configured)
	if cfg.Paths.ClientDir != "" {
		results = append(results, CheckDirectoryAccess("Client directory", cfg.Paths.ClientDir))
		results = append(results, CheckFreeSpace("Client free space", cfg.Paths.ClientDir))
	}

	// Asset gateway
	if cfg.GatewayEnabled() {
		results = append(results, CheckGateway(ctx, cfg.Gateway.URL, cfg.Gateway.Token))
	}

	return results
}
