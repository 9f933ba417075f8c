package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "plantdash",
	Short: "Live power plant generation in your terminal",
	Long: `plantdash polls a power plant feed and shows generation, capacity factor
and dispatch for every plant, refreshed on a fixed interval.

Start with 'plantdash init' to point it at a feed, or run 'plantdash simulate'
in another terminal for a local feed with made-up data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logger.DebugEnv, "1")
		}
		if noColor {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .plantdash.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and reports any error. The caller decides the
// exit code from the returned error. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	if MachineMode() {
		_ = WriteJSONFromError(os.Stdout, err)
		return err
	}
	printError(os.Stderr, err)
	return err
}

// printError renders err for humans. Structured errors already carry their own
// layout; cobra's usage errors get a pointer to --help.
func printError(w io.Writer, err error) {
	if isUnknownCommandError(err) {
		msg := err.Error()
		if name := extractUnknownCommand(err); name != "" {
			msg = fmt.Sprintf("'%s' isn't a plantdash command", name)
		}
		fmt.Fprintf(w, "%s %s\n\n  Run 'plantdash --help' to see available commands\n",
			ui.ErrorStyle().Render(ui.SymbolFail), msg)
		return
	}

	var pdErr *errors.Error
	if stderrors.As(err, &pdErr) {
		fmt.Fprint(w, pdErr.Error())
		return
	}
	fmt.Fprintf(w, "%s %v\n", ui.ErrorStyle().Render(ui.SymbolFail), err)
}

// isUnknownCommandError reports whether err is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "plantdash"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig finds, loads and validates the config, then applies its color
// mode. The returned path is empty when running on defaults.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	if !noColor {
		applyColorMode(cfg.Output.Color, term.IsTerminal(int(os.Stdout.Fd())))
	}
	return cfg, path, nil
}

// applyColorMode sets the lipgloss profile for output.color.
func applyColorMode(mode string, stdoutIsTerminal bool) {
	switch mode {
	case "never":
		ui.DisableColors()
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		if !stdoutIsTerminal {
			ui.DisableColors()
		}
	}
}
