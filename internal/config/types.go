package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Poll interval bounds.
const (
	DefaultPollInterval = 30 * time.Second
	MinPollInterval     = time.Second
)

// Config represents the complete .plantdash.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Feed      FeedConfig      `yaml:"feed" mapstructure:"feed"`
	Poll      PollConfig      `yaml:"poll" mapstructure:"poll"`
	Simulator SimulatorConfig `yaml:"simulator" mapstructure:"simulator"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// FeedConfig points at the upstream plant feed.
type FeedConfig struct {
	// URL is the feed's base URL. ${VAR} references are expanded from the environment.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds a single fetch.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PollConfig controls the refresh loop.
type PollConfig struct {
	// Interval between polls. Changes are picked up live by a running dashboard.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// SimulatorConfig controls `plantdash simulate`.
type SimulatorConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Seed makes generated data reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed,omitempty" mapstructure:"seed"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Feed: FeedConfig{
			URL:     "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Poll: PollConfig{
			Interval: DefaultPollInterval,
		},
		Simulator: SimulatorConfig{
			Addr: "127.0.0.1:8000",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
