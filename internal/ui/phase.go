package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 64

// PhaseDisplay renders the steps of a one-shot command (fetch, aggregate)
// to a writer, usually stderr so stdout stays clean for data.
type PhaseDisplay struct {
	w io.Writer
}

// NewPhaseDisplay creates a new phase display writing to w.
func NewPhaseDisplay(w io.Writer) *PhaseDisplay {
	return &PhaseDisplay{w: w}
}

// Run renders name as in progress, runs fn, and renders the outcome with
// its duration.
func (pd *PhaseDisplay) Run(name string, fn func() error) error {
	pd.RenderProgress(name)
	start := time.Now()
	err := fn()
	if err != nil {
		pd.RenderFailed(name, time.Since(start), err)
		return err
	}
	pd.RenderSuccess(name, time.Since(start))
	return nil
}

// RenderProgress renders a phase in progress.
// Shows: ◐ Fetching feed...
func (pd *PhaseDisplay) RenderProgress(name string) {
	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	fmt.Fprintf(pd.w, "\r%s %s...", style.Render(SymbolProgress), name)
}

// RenderSuccess renders a completed phase.
// Shows: ● Fetching feed 0.3s
func (pd *PhaseDisplay) RenderSuccess(name string, duration time.Duration) {
	pd.clearLine()
	fmt.Fprintln(pd.w, FormatPhase(SymbolComplete, ColorSuccess, name, formatDuration(duration)))
}

// RenderFailed renders a failed phase and a one-line reason.
// Shows: ✗ Fetching feed 2.3s
func (pd *PhaseDisplay) RenderFailed(name string, duration time.Duration, err error) {
	pd.clearLine()
	fmt.Fprintln(pd.w, FormatPhase(SymbolFail, ColorError, name, formatDuration(duration)))
	if err != nil {
		fmt.Fprintf(pd.w, "  %s\n", MutedStyle().Render(errors.Summary(err)))
	}
}

// RenderSkipped renders a skipped phase.
// Shows: ⊘ Aggregating (feed was empty)
func (pd *PhaseDisplay) RenderSkipped(name string, reason string) {
	pd.clearLine()
	line := FormatPhase(SymbolSkipped, ColorWarning, name, "")
	if reason != "" {
		line += " " + MutedStyle().Render("("+reason+")")
	}
	fmt.Fprintln(pd.w, line)
}

// RenderSubStatus renders an indented sub-status line.
// Shows:   ⚠ record 3 (plant "powerplant2")        malformed time
func (pd *PhaseDisplay) RenderSubStatus(symbol string, name string, status string) {
	style := MutedStyle()
	fmt.Fprintf(pd.w, "  %s %s %s\n", style.Render(symbol), name, style.Render(status))
}

// Divider renders a horizontal line to separate phases from command output.
func (pd *PhaseDisplay) Divider() {
	fmt.Fprintf(pd.w, "%s\n", FormatDivider(DividerWidth))
}

func (pd *PhaseDisplay) clearLine() {
	fmt.Fprint(pd.w, "\r"+strings.Repeat(" ", 80)+"\r")
}

// FormatPhase returns a formatted phase line as a string.
func FormatPhase(symbol string, symbolColor lipgloss.Color, name string, timing string) string {
	symbolStyle := lipgloss.NewStyle().Foreground(symbolColor)
	if timing == "" {
		return fmt.Sprintf("%s %s", symbolStyle.Render(symbol), name)
	}
	return fmt.Sprintf("%s %s %s", symbolStyle.Render(symbol), name, MutedStyle().Render(timing))
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	return MutedStyle().Render(strings.Repeat("━", width))
}
