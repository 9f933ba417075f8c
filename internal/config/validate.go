package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but plantdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade plantdash or lower the version in .plantdash.yaml.")
	}

	if err := validateFeed(cfg.Feed); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'feed' section in your .plantdash.yaml.")
	}

	if err := validatePoll(cfg.Poll); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'poll' section in your .plantdash.yaml.")
	}

	if err := validateSimulator(cfg.Simulator); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'simulator' section in your .plantdash.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .plantdash.yaml.")
	}

	return nil
}

func validateFeed(feed FeedConfig) error {
	if strings.TrimSpace(feed.URL) == "" {
		return fmt.Errorf("feed.url is empty")
	}
	if strings.Contains(feed.URL, "${") {
		return fmt.Errorf("feed.url '%s' references an unset environment variable", feed.URL)
	}
	u, err := url.Parse(feed.URL)
	if err != nil {
		return fmt.Errorf("feed.url '%s' isn't a valid URL", feed.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("feed.url '%s' needs an http:// or https:// scheme", feed.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("feed.url '%s' has no host", feed.URL)
	}
	if feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive, got %s", feed.Timeout)
	}
	return nil
}

func validatePoll(poll PollConfig) error {
	if poll.Interval < MinPollInterval {
		return fmt.Errorf("poll.interval %s is too short (minimum %s)", poll.Interval, MinPollInterval)
	}
	return nil
}

func validateSimulator(sim SimulatorConfig) error {
	if sim.Addr == "" {
		return fmt.Errorf("simulator.addr is empty")
	}
	if _, _, err := net.SplitHostPort(sim.Addr); err != nil {
		return fmt.Errorf("simulator.addr '%s' should look like host:port", sim.Addr)
	}
	return nil
}

func validateOutput(out OutputConfig) error {
	switch out.Color {
	case "", "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output.color '%s' should be one of auto, always, never", out.Color)
	}
}
