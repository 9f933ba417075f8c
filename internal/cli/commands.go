package cli

import (
	"os"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Command-specific flags
var (
	dashboardIntervalFlag string
	snapshotPlantFlag     string
	simulateAddrFlag      string
	simulateSeedFlag      uint64
	simulateAccessLog     bool
	initFeedURLFlag       string
	initIntervalFlag      string
	initForce             bool
	initNonInteractive    bool
)

// dashboardCmd starts the live TUI dashboard
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Live dashboard of plant generation",
	Long: `Start an interactive TUI dashboard that polls the feed and shows a card
per plant: generation against capacity, capacity factor, dispatch target and a
sparkline of the recent window.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Retry now
  arrows/hjkl Move the selection
  Enter       Open plant detail
  Esc         Back / close help
  ?           Show help

The poll interval follows poll.interval in the config file, and edits to the
file apply without a restart. --interval pins it for this session.

Examples:
  plantdash dashboard
  plantdash dashboard --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := ParseInterval(dashboardIntervalFlag)
		if err != nil {
			return err
		}
		return dashboardCommand(cmd.Context(), DashboardOptions{Interval: interval})
	},
}

// snapshotCmd polls once and prints the plant table
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Poll the feed once and print every plant",
	Long: `Poll the feed once and print a table of plant summaries.

With --plant, the plant's measurements in the poll window are printed too.
With --json, the summaries and measurements are written as a JSON envelope.

Examples:
  plantdash snapshot
  plantdash snapshot --plant powerplant2
  plantdash snapshot --json | jq '.data.plants[].netGeneration'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runSnapshot(cmd.Context(), cfg, SnapshotOptions{Plant: snapshotPlantFlag}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// dispatchCmd lists the dispatch records for one plant
var dispatchCmd = &cobra.Command{
	Use:   "dispatch <plant>",
	Short: "Show recent dispatch records for a plant",
	Long: `Fetch the dispatch instructions the feed holds for one plant.

Examples:
  plantdash dispatch powerplant1
  plantdash dispatch powerplant3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return runDispatch(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// simulateCmd serves a local feed with generated data
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve a local feed with generated plant data",
	Long: `Run a local HTTP feed that serves five plants with plausible, randomly
generated measurements and dispatch records. Point the dashboard at it to try
plantdash without a real feed.

Examples:
  plantdash simulate
  plantdash simulate --addr 127.0.0.1:9000 --seed 42
  plantdash simulate --access-log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return simulateCommand(cmd.Context(), SimulateOptions{
			Addr:      simulateAddrFlag,
			Seed:      simulateSeedFlag,
			AccessLog: simulateAccessLog,
		})
	},
}

// initCmd creates a new .plantdash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .plantdash.yaml configuration",
	Long: `Initialize a new plantdash configuration file.

Creates a .plantdash.yaml file in the current directory. When run in a terminal
it asks for the feed URL and poll interval; otherwise the flags and defaults
are used.

Examples:
  plantdash init
  plantdash init --feed-url http://localhost:8000 --interval 15s
  plantdash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := ParseInterval(initIntervalFlag)
		if err != nil {
			return err
		}
		return Init(InitOptions{
			Path:           cfgFile,
			FeedURL:        initFeedURLFlag,
			Interval:       interval,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive || !term.IsTerminal(int(os.Stdin.Fd())),
			Out:            cmd.OutOrStdout(),
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for plantdash.

Examples:
  # Bash
  plantdash completion bash > /etc/bash_completion.d/plantdash

  # Zsh
  plantdash completion zsh > "${fpath[1]}/_plantdash"

  # Fish
  plantdash completion fish > ~/.config/fish/completions/plantdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// dashboard command flags
	dashboardCmd.Flags().StringVar(&dashboardIntervalFlag, "interval", "", "poll interval (e.g., 10s, 1m); overrides the config")

	// snapshot command flags
	snapshotCmd.Flags().StringVar(&snapshotPlantFlag, "plant", "", "also print measurements for this plant id")
	snapshotCmd.Flags().BoolVar(&machineMode, "json", false, "output as JSON")

	// dispatch command flags
	dispatchCmd.Flags().BoolVar(&machineMode, "json", false, "output as JSON")

	// simulate command flags
	simulateCmd.Flags().StringVar(&simulateAddrFlag, "addr", "", "listen address (default: simulator.addr from config)")
	simulateCmd.Flags().Uint64Var(&simulateSeedFlag, "seed", 0, "random seed for reproducible data (0 = random)")
	simulateCmd.Flags().BoolVar(&simulateAccessLog, "access-log", false, "write an access log to stderr")

	// init command flags
	initCmd.Flags().StringVar(&initFeedURLFlag, "feed-url", "", "feed base URL")
	initCmd.Flags().StringVar(&initIntervalFlag, "interval", "", "poll interval (e.g., 30s)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts and use flags or defaults")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
