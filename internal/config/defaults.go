package config

const (
	defaultDataDir               = "~/.local/share/arena"
	defaultLogDir                = "~/.local/share/arena/logs"
	defaultSocketPath            = "~/.local/share/arena/arenad.sock"
	defaultRuntimeBaseURL        = "http://127.0.0.1:5000"
	defaultRequestTimeoutSeconds = 30
	defaultHealthIntervalSeconds = 10
	defaultTickRate              = 10.0
	defaultSeed                  = 1
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
		},
		Runtime: Runtime{
			BaseURL:               defaultRuntimeBaseURL,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
			HealthIntervalSeconds: defaultHealthIntervalSeconds,
		},
		Simulation: Simulation{
			TickRate: defaultTickRate,
			Seed:     defaultSeed,
		},
		Events: Events{
			RecordOnStart: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
