package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/feed"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Not focused, so the cursor row should look like any other
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// RenderPlantTable renders one line per plant summary. The selected plant
// is marked with " *" after its name; simulated fields carry a trailing "*"
// in their header.
func RenderPlantTable(summaries []plant.Summary, selectedID string) string {
	if len(summaries) == 0 {
		return "No plants in the feed"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	selectedStyle := lipgloss.NewStyle().Bold(true)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render(
		"  " + padRight("PLANT", 18) + padRight("STATUS*", 10) + padRight("NET MW", 10) +
			padRight("CAPACITY", 10) + padRight("CF", 8) + padRight("EFF*", 8) + padRight("DISPATCH", 10) + "LIMITS"))
	b.WriteString("\n")

	for _, s := range summaries {
		name := s.DisplayName
		if s.ID == selectedID {
			name = selectedStyle.Render(name + " *")
		}
		cf := s.CapacityFactorPct.String()
		if !s.CapacityFactorPct.Known() {
			cf = mutedStyle.Render(cf)
		}

		line := "  " +
			padRight(name, 18) +
			padRight(successStyle.Render(string(s.Status)), 10) +
			padRight(fmt.Sprintf("%.1f", s.NetGeneration), 10) +
			padRight(fmt.Sprintf("%.0f", s.Capacity), 10) +
			padRight(cf, 8) +
			padRight(fmt.Sprintf("%.1f%%", s.EfficiencyPct), 8) +
			padRight(fmt.Sprintf("%.1f", s.DispatchTarget), 10) +
			mutedStyle.Render(fmt.Sprintf("%.0f-%.0f", s.LowerLimit, s.UpperLimit))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderDispatchTable renders a plant's recent dispatch instructions.
func RenderDispatchTable(records []feed.DispatchRecord) string {
	if len(records) == 0 {
		return "No dispatch records"
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.DispatchTime, fmt.Sprintf("%.2f", r.Amount)}
	}
	return RenderSimpleTable([]TableColumn{
		{Title: "Dispatch time", Width: 21},
		{Title: "MW", Width: 10},
	}, rows)
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
