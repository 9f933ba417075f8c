package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/config"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/logger"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/session"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/ui"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/util"
)

// SnapshotOptions holds options for the snapshot command.
type SnapshotOptions struct {
	Plant string // Plant id whose measurements are printed as well
}

// SnapshotOutput is the data block of `snapshot --json`.
type SnapshotOutput struct {
	Feed      string             `json:"feed"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Total     float64            `json:"totalGeneration"`
	Skipped   int                `json:"skipped"`
	Plants    []plant.Summary    `json:"plants"`
	Selected  *SnapshotSelection `json:"selected,omitempty"`
}

// SnapshotSelection is the --plant part of SnapshotOutput.
type SnapshotSelection struct {
	Plant  plant.Summary       `json:"plant"`
	Points []plant.DetailPoint `json:"points"`
}

// runSnapshot polls the feed once and writes the result to stdout. Progress
// goes to stderr, and is suppressed in machine mode.
func runSnapshot(ctx context.Context, cfg *config.Config, opts SnapshotOptions, stdout, stderr io.Writer) error {
	ctrl, err := newController(cfg, 0, logger.NewEnvLogger("[poll]"))
	if err != nil {
		return err
	}
	store := ctrl.Store()
	defer store.Close()

	poll := func() error { return ctrl.PollOnce(ctx) }
	if MachineMode() {
		err = poll()
	} else {
		err = ui.NewPhaseDisplay(stderr).Run("Polling "+cfg.Feed.URL, poll)
	}
	if err != nil {
		return err
	}

	st := store.Snapshot()
	if opts.Plant != "" {
		if !hasPlant(st.Summaries, opts.Plant) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Plant '%s' isn't in the feed", opts.Plant),
				unknownPlantSuggestion(opts.Plant, plantIDs(st.Summaries)))
		}
		store.Select(opts.Plant)
		st = store.Snapshot()
	}

	if MachineMode() {
		return WriteJSONSuccess(stdout, snapshotOutput(cfg.Feed.URL, st, opts.Plant != ""))
	}

	selected := ""
	if opts.Plant != "" {
		selected = st.SelectedPlantID
	}
	fmt.Fprintln(stdout, ui.RenderPlantTable(st.Summaries, selected))

	if sel := st.Selection(); opts.Plant != "" && sel.Summary != nil {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, renderPointsTable(sel.Summary.DisplayName, sel.Details))
	}

	if st.Skipped > 0 {
		ui.PrintWarning(fmt.Sprintf("%d malformed %s skipped", st.Skipped, util.Pluralize(st.Skipped, "record", "records")))
	}
	return nil
}

func snapshotOutput(feedURL string, st session.State, withSelection bool) SnapshotOutput {
	out := SnapshotOutput{
		Feed:      feedURL,
		UpdatedAt: st.LastUpdate,
		Total:     plant.TotalGeneration(st.Summaries),
		Skipped:   st.Skipped,
		Plants:    st.Summaries,
	}
	if out.Plants == nil {
		out.Plants = []plant.Summary{}
	}
	if sel := st.Selection(); withSelection && sel.Summary != nil {
		out.Selected = &SnapshotSelection{Plant: *sel.Summary, Points: sel.Details}
	}
	return out
}

// renderPointsTable lists one plant's measurements in the poll window.
func renderPointsTable(name string, points []plant.DetailPoint) string {
	columns := []ui.TableColumn{
		{Title: "Time", Width: 6},
		{Title: "Net MW", Width: 9},
		{Title: "Dispatch", Width: 9},
		{Title: "Upper", Width: 8},
		{Title: "Lower", Width: 8},
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Time,
			fmt.Sprintf("%.1f", p.NetGeneration),
			fmt.Sprintf("%.1f", p.DispatchTarget),
			fmt.Sprintf("%.0f", p.UpperLimit),
			fmt.Sprintf("%.0f", p.LowerLimit),
		})
	}

	title := ui.InfoStyle().Bold(true).Render(fmt.Sprintf("%s (%d %s)", name, len(points),
		util.Pluralize(len(points), "measurement", "measurements")))
	if len(rows) == 0 {
		return title + "\n" + ui.MutedStyle().Render("No measurements")
	}
	return title + "\n" + ui.RenderSimpleTable(columns, rows)
}

// unknownPlantSuggestion lists the available plants, leading with near misses.
func unknownPlantSuggestion(id string, available []string) string {
	suggestion := "Available plants: " + util.JoinOrNone(available)
	if similar := util.SuggestSimilar(id, available, 3); len(similar) > 0 {
		suggestion = "Did you mean " + strings.Join(similar, " or ") + "? " + suggestion
	}
	return suggestion
}

func hasPlant(summaries []plant.Summary, id string) bool {
	for _, s := range summaries {
		if s.ID == id {
			return true
		}
	}
	return false
}

func plantIDs(summaries []plant.Summary) []string {
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	return ids
}
