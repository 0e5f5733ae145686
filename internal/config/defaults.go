package config

const (
	defaultPollInterval     = 30
	defaultDebounceMS       = 500
	defaultStopGraceSeconds = 5
	defaultAgentBinary      = "qwen"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Workflow: Workflow{
			PollInterval:     defaultPollInterval,
			DebounceMS:       defaultDebounceMS,
			StopGraceSeconds: defaultStopGraceSeconds,
		},
		Agent: Agent{
			Binary:     defaultAgentBinary,
			AutoInvoke: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
