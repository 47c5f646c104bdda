package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBoard()
	c.normalizeGateway()
	c.normalizeSync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if c.Paths.ClientDir, err = expandPath(c.Paths.ClientDir); err != nil {
		return fmt.Errorf("paths.client_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeBoard() {
	roster := make([]string, 0, len(c.Board.Roster))
	seen := make(map[string]struct{}, len(c.Board.Roster))
	for _, name := range c.Board.Roster {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		roster = append(roster, trimmed)
	}
	if len(roster) == 0 {
		roster = defaultRoster()
	}
	c.Board.Roster = roster

	if strings.TrimSpace(c.Board.ReshootNotes) == "" {
		c.Board.ReshootNotes = defaultReshootNotes
	}
}

func (c *Config) normalizeGateway() {
	c.Gateway.URL = strings.TrimRight(strings.TrimSpace(c.Gateway.URL), "/")
	c.Gateway.Token = strings.TrimSpace(c.Gateway.Token)
	if c.Gateway.RequestTimeout <= 0 {
		c.Gateway.RequestTimeout = defaultGatewayRequestTimeout
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.QueueSize <= 0 {
		c.Sync.QueueSize = defaultSyncQueueSize
	}
	if c.Sync.SyncedIndicatorSeconds <= 0 {
		c.Sync.SyncedIndicatorSeconds = defaultSyncedIndicatorSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
