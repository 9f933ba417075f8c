package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string        // Config path; defaults to ./.plantdash.yaml
	FeedURL        string        // Pre-specified feed URL
	Interval       time.Duration // Pre-specified poll interval
	Overwrite      bool          // Overwrite existing config without asking
	NonInteractive bool          // Skip prompts, use flags and defaults
	Out            io.Writer     // Defaults to os.Stdout
}

// Init creates a new .plantdash.yaml configuration file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		opts.Overwrite = true
	}

	cfg := config.DefaultConfig()
	if opts.FeedURL != "" {
		cfg.Feed.URL = strings.TrimSpace(opts.FeedURL)
	}
	if opts.Interval > 0 {
		cfg.Poll.Interval = opts.Interval
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	// ${VAR} references stay unexpanded in the file.
	check := *cfg
	check.Feed.URL = config.Expand(cfg.Feed.URL)
	if err := config.Validate(&check); err != nil {
		return err
	}
	if err := config.Write(configPath, cfg, opts.Overwrite); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), configPath)
	fmt.Fprintf(out, "  feed: %s, polling every %s\n", cfg.Feed.URL, cfg.Poll.Interval)
	fmt.Fprintln(out, ui.MutedStyle().Render("  Run 'plantdash dashboard' to start watching the feed."))
	return nil
}

// promptConfig asks for the feed URL, poll interval and color mode, starting
// from the values already in cfg.
func promptConfig(cfg *config.Config) error {
	feedURL := cfg.Feed.URL
	interval := cfg.Poll.Interval.String()
	color := cfg.Output.Color

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Feed URL").
				Description("Base URL of the plant feed (supports ${VAR})").
				Placeholder("http://localhost:8000").
				Value(&feedURL).
				Validate(validateFeedURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Poll interval").
				Description(fmt.Sprintf("How often to refresh (minimum %s)", config.MinPollInterval)).
				Placeholder(config.DefaultPollInterval.String()).
				Value(&interval).
				Validate(validateInterval),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color output").
				Options(huh.NewOptions("auto", "always", "never")...).
				Value(&color),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	cfg.Feed.URL = strings.TrimSpace(feedURL)
	d, err := ParseInterval(strings.TrimSpace(interval))
	if err != nil {
		return err
	}
	if d > 0 {
		cfg.Poll.Interval = d
	}
	cfg.Output.Color = color
	return nil
}

func validateFeedURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("feed URL is required")
	}
	if _, err := feed.ParseBaseURL(config.Expand(s)); err != nil {
		return fmt.Errorf("%s", errors.Summary(err))
	}
	return nil
}

func validateInterval(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := ParseInterval(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("%s", errors.Summary(err))
	}
	return nil
}
