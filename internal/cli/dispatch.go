package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/util"
)

// runDispatch fetches and prints the dispatch records for plantID.
func runDispatch(ctx context.Context, cfg *config.Config, plantID string, stdout, stderr io.Writer) error {
	client, err := newFeedClient(cfg)
	if err != nil {
		return err
	}

	var resp feed.DispatchResponse
	fetch := func() error {
		var err error
		resp, err = client.Dispatch(ctx, plantID)
		return err
	}
	if MachineMode() {
		err = fetch()
	} else {
		err = ui.NewPhaseDisplay(stderr).Run("Fetching dispatch for "+plantID, fetch)
	}
	if err != nil {
		return err
	}

	if MachineMode() {
		return WriteJSONSuccess(stdout, resp)
	}

	title := ui.InfoStyle().Bold(true).Render(fmt.Sprintf("%s (%d %s)", resp.Plant, len(resp.Records),
		util.Pluralize(len(resp.Records), "record", "records")))
	fmt.Fprintln(stdout, title)
	fmt.Fprintln(stdout, ui.RenderDispatchTable(resp.Records))
	return nil
}
