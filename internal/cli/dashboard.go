package cli

import (
	"context"
	stderrors "errors"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/dashboard"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/session"
	"golang.org/x/term"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "plantdash-debug.log"

// DashboardOptions holds options for the dashboard command.
type DashboardOptions struct {
	Interval time.Duration // Zero follows poll.interval from the config
}

// dashboardCommand runs the TUI until the user quits or ctx is canceled.
func dashboardCommand(ctx context.Context, opts DashboardOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrExec,
			"The dashboard needs a terminal",
			"Use 'plantdash snapshot' for piped or scripted output")
	}

	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	// The alt screen owns stdout and stderr, so log lines go to a file or nowhere.
	if verbose {
		f, err := tea.LogToFile(debugLogFile, "plantdash")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Can't open "+debugLogFile,
				"Check that the current directory is writable, or drop --verbose")
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	pollLog := logger.NewEnvLogger("[poll]")
	ctrl, err := newController(cfg, opts.Interval, pollLog)
	if err != nil {
		return err
	}

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer ctrl.Stop()

	if path != "" && opts.Interval == 0 {
		err := config.Watch(path, func(c *config.Config, err error) {
			applyConfigChange(ctrl, pollLog, c, err)
		})
		if err != nil {
			pollLog.Warn("config watch disabled: %s", errors.Summary(err))
		}
	}

	p := tea.NewProgram(dashboard.NewModel(ctrl),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Dashboard exited unexpectedly",
			"Run with --verbose and check "+debugLogFile)
	}
	return nil
}

// applyConfigChange reacts to an edit of the watched config file. Only the
// poll interval is live; an invalid edit keeps the running interval. The
// watch outlives the dashboard, so edits after the controller stops are ignored.
func applyConfigChange(ctrl *session.Controller, log logger.Logger, cfg *config.Config, err error) {
	if !ctrl.Running() {
		log.Debug("config change ignored: refresh loop stopped")
		return
	}
	if err != nil {
		log.Warn("config reload rejected: %s", errors.Summary(err))
		return
	}
	if err := ctrl.SetInterval(cfg.Poll.Interval); err != nil {
		log.Warn("poll interval not changed: %s", errors.Summary(err))
	}
}
