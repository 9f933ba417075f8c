package cli

import (
	"fmt"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/session"
)

// ParseInterval parses a poll interval flag into a duration.
// Returns zero duration if the flag is empty.
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 5s, 30s, or 1m.")
	}
	if d < config.MinPollInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s to avoid hammering the feed", config.MinPollInterval))
	}
	return d, nil
}

// newFeedClient builds a feed client from the loaded config.
func newFeedClient(cfg *config.Config) (*feed.Client, error) {
	return feed.NewClient(cfg.Feed.URL,
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithLogger(logger.NewEnvLogger("[feed]")),
		feed.WithUserAgent("plantdash/"+version))
}

// newController wires a feed client into a fresh session. A zero interval
// uses poll.interval from the config.
func newController(cfg *config.Config, interval time.Duration, log logger.Logger) (*session.Controller, error) {
	client, err := newFeedClient(cfg)
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		interval = cfg.Poll.Interval
	}
	return session.NewController(client, session.NewStore(),
		session.WithInterval(interval),
		session.WithFetchTimeout(cfg.Feed.Timeout),
		session.WithLogger(log)), nil
}
