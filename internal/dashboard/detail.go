package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Detail chart size
const (
	detailChartHeight = 6
	detailMinWidth    = 40
	axisLabelWidth    = 7
)

var (
	detailContainerStyle = lipgloss.NewStyle().
				Padding(0, 2)

	detailSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1).
				MarginBottom(1)

	detailTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// updateDetailViewportContent re-renders the detail pane into the viewport,
// keeping the scroll position where possible.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady {
		return
	}
	m.detailViewport.SetContent(m.renderDetailView())
}

// renderDetailView renders the selected plant's drill-down.
func (m Model) renderDetailView() string {
	sel := m.state.Selection()
	if sel.Summary == nil {
		return LabelStyle.Render("No plant selected")
	}
	s := sel.Summary

	contentWidth := m.width - 8
	if contentWidth < detailMinWidth {
		contentWidth = detailMinWidth
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(*s))
	b.WriteString("\n\n")

	if len(sel.Details) == 0 {
		b.WriteString(detailSectionStyle.Width(contentWidth).Render(
			LabelStyle.Render("No measurements for this plant in the last poll")))
		return detailContainerStyle.Render(b.String())
	}

	b.WriteString(m.renderDetailChart(*s, sel.Details, contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderDetailTable(sel.Details, contentWidth))

	return detailContainerStyle.Render(b.String())
}

// renderDetailHeader renders the plant name, status and static figures.
func (m Model) renderDetailHeader(s plant.Summary) string {
	title := detailTitleStyle.Render(s.DisplayName)
	status := StatusOnlineStyle.Render(StatusOnline+" "+string(s.Status)) + m.simMark(s)
	facts := LabelStyle.Render(s.PlantType) + m.simMark(s) +
		LabelStyle.Render(fmt.Sprintf(" | capacity %.0f MW | ramp %.0f MW/min | efficiency %.1f%%",
			s.Capacity, s.RampRate, s.EfficiencyPct)) + m.simMark(s)
	return fmt.Sprintf("%s  %s\n%s", title, status, facts)
}

// renderDetailChart renders net generation over the poll window with the
// limits on the y axis and a legend underneath.
func (m Model) renderDetailChart(s plant.Summary, details []plant.DetailPoint, width int) string {
	gen := make([]float64, len(details))
	for i, d := range details {
		gen[i] = d.NetGeneration
	}
	latest := details[len(details)-1]

	chartWidth := width - axisLabelWidth - 4
	if chartWidth < 10 {
		chartWidth = 10
	}
	lo, hi := chartBounds(gen, latest.LowerLimit, latest.UpperLimit)
	chart := strings.Split(RenderBrailleChart(gen, chartWidth, detailChartHeight, lo, hi, ColorGraph), "\n")

	axis := make([]string, len(chart))
	for i := range axis {
		axis[i] = strings.Repeat(" ", axisLabelWidth)
	}
	axis[0] = MutedStyle.Render(fmt.Sprintf("%*.0f ", axisLabelWidth-1, hi))
	axis[len(axis)-1] = MutedStyle.Render(fmt.Sprintf("%*.0f ", axisLabelWidth-1, lo))

	rows := make([]string, len(chart))
	for i := range chart {
		rows[i] = axis[i] + chart[i]
	}

	var lines []string
	lines = append(lines, detailTitleStyle.Render("Net generation"))
	lines = append(lines, rows...)
	lines = append(lines, strings.Repeat(" ", axisLabelWidth)+
		m.renderAxis(details[0].Time, latest.Time, "", chartWidth))
	lines = append(lines, "")
	lines = append(lines, renderLegend(s, latest))

	return detailSectionStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderLegend(s plant.Summary, latest plant.DetailPoint) string {
	item := func(color lipgloss.Color, label string, v float64) string {
		return lipgloss.NewStyle().Foreground(color).Render("■") + " " +
			LabelStyle.Render(label+" ") + ValueStyle.Render(fmt.Sprintf("%.1f", v))
	}
	return strings.Join([]string{
		item(LimitColor(latest.NetGeneration, latest.LowerLimit, latest.UpperLimit), "latest", latest.NetGeneration),
		item(ColorDispatch, "dispatch", latest.DispatchTarget),
		item(ColorCritical, "upper", latest.UpperLimit),
		item(ColorWarning, "lower", latest.LowerLimit),
		LabelStyle.Render("CF ") + lipgloss.NewStyle().Foreground(CapacityFactorColor(s.CapacityFactorPct)).Render(s.CapacityFactorPct.String()),
	}, "   ")
}

// detailColumns are the measurement table columns.
func detailColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Time", Width: 7},
		{Title: "Net MW", Width: 10},
		{Title: "Dispatch", Width: 10},
		{Title: "Upper", Width: 9},
		{Title: "Lower", Width: 9},
		{Title: "vs Disp", Width: 9},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if width < used {
		// drop the derived column on narrow terminals
		cols = cols[:len(cols)-1]
	}
	return cols
}

// renderDetailTable renders one row per measurement, newest last.
func (m Model) renderDetailTable(details []plant.DetailPoint, width int) string {
	cols := detailColumns(width)
	rows := make([]table.Row, 0, len(details))
	for _, d := range details {
		row := table.Row{
			d.Time,
			fmt.Sprintf("%.2f", d.NetGeneration),
			fmt.Sprintf("%.2f", d.DispatchTarget),
			fmt.Sprintf("%.1f", d.UpperLimit),
			fmt.Sprintf("%.1f", d.LowerLimit),
			fmt.Sprintf("%+.2f", d.NetGeneration-d.DispatchTarget),
		}
		rows = append(rows, row[:len(cols)])
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorAccent)
	s.Cell = s.Cell.Foreground(ColorTextPrimary)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	title := detailTitleStyle.Render(fmt.Sprintf("Measurements (%d)", len(details)))
	return detailSectionStyle.Width(width).Render(title + "\n" + t.View())
}
