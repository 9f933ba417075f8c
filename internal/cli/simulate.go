package cli

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/simulator"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
)

// SimulateOptions holds options for the simulate command. Zero values fall
// back to the simulator section of the config.
type SimulateOptions struct {
	Addr      string
	Seed      uint64
	AccessLog bool
}

// simulateCommand serves generated data until ctx is canceled.
func simulateCommand(ctx context.Context, opts SimulateOptions) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	addr := opts.Addr
	if addr == "" {
		addr = cfg.Simulator.Addr
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulator.Seed
	}

	gen := simulator.NewGenerator(seed)
	srvOpts := []simulator.ServerOption{
		simulator.WithLogger(logger.NewEnvLogger("[simulate]")),
	}
	if opts.AccessLog {
		srvOpts = append(srvOpts, simulator.WithAccessLog(os.Stderr))
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't listen on "+addr,
			"Pick a free address with --addr or simulator.addr")
	}

	fmt.Fprintf(os.Stderr, "%s Serving %d plants on %s %s\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess),
		len(gen.Plants()),
		ui.InfoStyle().Render("http://"+ln.Addr().String()),
		ui.MutedStyle().Render("(Ctrl+C to stop)"))

	return simulator.NewServer(gen, srvOpts...).Serve(ctx, ln)
}
