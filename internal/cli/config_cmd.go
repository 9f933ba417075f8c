package cli

import (
	"fmt"
	"io"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved config",
	Long: `Print the config plantdash would use right now: the file found by the
search order, with environment overrides and defaults applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), cfg, path)
	},
}

var configSetIntervalCmd = &cobra.Command{
	Use:   "set-interval <duration>",
	Short: "Change poll.interval in the config file",
	Long: `Rewrite poll.interval in the config file, keeping its comments and layout.
A running dashboard picks up the new interval without a restart.

Examples:
  plantdash config set-interval 10s
  plantdash config set-interval 2m`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setInterval(cmd.OutOrStdout(), cfgFile, args[0])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetIntervalCmd)
	rootCmd.AddCommand(configCmd)
}

func showConfig(w io.Writer, cfg *config.Config, path string) error {
	source := path
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintln(w, ui.MutedStyle().Render("# "+source))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	return enc.Close()
}

func setInterval(w io.Writer, explicit, value string) error {
	d, err := ParseInterval(value)
	if err != nil {
		return err
	}

	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'plantdash init' to create one")
	}

	if err := config.SetPollInterval(path, d); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s poll.interval set to %s in %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), d, path)
	return nil
}
