package config

const (
	defaultDataDir                = "~/.local/share/pairtrack"
	defaultLogDir                 = "~/.local/share/pairtrack/logs"
	defaultAssetsDir              = "~/pairtrack/assets"
	defaultClientDir              = "~/pairtrack/client"
	defaultAPIBind                = "127.0.0.1:7821"
	defaultReshootNotes           = "Reshoot requested"
	defaultGatewayRequestTimeout  = 30
	defaultSyncQueueSize          = 64
	defaultSyncedIndicatorSeconds = 3
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

func defaultRoster() []string {
	return []string{"Nate P.", "Joy S."}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			AssetsDir: defaultAssetsDir,
			ClientDir: defaultClientDir,
			APIBind:   defaultAPIBind,
		},
		Board: Board{
			Roster:       defaultRoster(),
			ReshootNotes: defaultReshootNotes,
		},
		Gateway: Gateway{
			RequestTimeout: defaultGatewayRequestTimeout,
		},
		Sync: Sync{
			QueueSize:              defaultSyncQueueSize,
			SyncedIndicatorSeconds: defaultSyncedIndicatorSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
