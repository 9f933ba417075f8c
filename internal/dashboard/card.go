package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// cardLabelWidth aligns the value column inside a card.
const cardLabelWidth = 7

var cardDividerStyle = lipgloss.NewStyle().
	Foreground(ColorBorder).
	Background(ColorSurfaceBg)

// renderCardDivider creates a subtle thin divider line
func renderCardDivider(width int) string {
	return cardDividerStyle.Render(strings.Repeat("─", width))
}

// renderCardLine renders a text line with the card background applied to
// the content and its padding.
func renderCardLine(content string, width int) string {
	padding := ""
	if w := lipgloss.Width(content); width > w {
		padding = strings.Repeat(" ", width-w)
	}
	return lipgloss.NewStyle().Background(ColorSurfaceBg).Render(content + padding)
}

// truncateWithEllipsis truncates a string to maxLen runes, adding an
// ellipsis if needed.
func truncateWithEllipsis(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 3 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func cardRow(label, value string) string {
	return LabelStyle.Render(fmt.Sprintf("%-*s", cardLabelWidth, label)) + value
}

// renderCard renders one plant summary.
func (m Model) renderCard(s plant.Summary, width int, selected bool) string {
	style := CardStyle.Width(width)
	if selected {
		style = CardSelectedStyle.Width(width)
	}

	// border (2) + padding (2)
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var lines []string

	name := PlantNameStyle.Render(truncateWithEllipsis(s.DisplayName, inner-12))
	status := StatusOnlineStyle.Render(StatusOnline+" "+string(s.Status)) + m.simMark(s)
	gap := inner - lipgloss.Width(name) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, name+strings.Repeat(" ", gap)+status)
	lines = append(lines, MutedStyle.Render(s.PlantType)+m.simMark(s))
	lines = append(lines, renderCardDivider(inner))

	genStyle := LimitStyle(s.NetGeneration, s.LowerLimit, s.UpperLimit)
	lines = append(lines, cardRow("Gen", genStyle.Render(fmt.Sprintf("%.1f MW", s.NetGeneration))+
		MutedStyle.Render(fmt.Sprintf(" / %.0f", s.Capacity))))

	cf := lipgloss.NewStyle().Foreground(CapacityFactorColor(s.CapacityFactorPct)).Render(s.CapacityFactorPct.String())
	lines = append(lines, cardRow("CF", cf))
	lines = append(lines, cardRow("Eff", ValueStyle.Render(fmt.Sprintf("%.1f%%", s.EfficiencyPct))+m.simMark(s)))
	lines = append(lines, cardRow("Disp", ValueStyle.Render(fmt.Sprintf("%.1f MW", s.DispatchTarget))))

	if m.LayoutMode() != LayoutMinimal && len(s.HourlySeries) > 0 {
		series := make([]float64, len(s.HourlySeries))
		for i, p := range s.HourlySeries {
			series[i] = p.Generation
		}
		lines = append(lines, renderCardDivider(inner))
		lines = append(lines, RenderSparkline(series, inner, s.LowerLimit, s.UpperLimit))
		first, last := s.HourlySeries[0].Time, s.HourlySeries[len(s.HourlySeries)-1].Time
		lines = append(lines, m.renderAxis(first, last,
			fmt.Sprintf("%.0f%s%.0f", s.LowerLimit, LimitSeparator, s.UpperLimit), inner))
	}

	for i := range lines {
		lines[i] = renderCardLine(lines[i], inner)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderAxis spreads left, middle and right labels across width.
func (m Model) renderAxis(left, right, middle string, width int) string {
	space := width - len(left) - len(right) - len(middle)
	if space < 2 {
		return MutedStyle.Render(left + strings.Repeat(" ", clampInt(width-len(left)-len(right), width)) + right)
	}
	leftGap := space / 2
	return MutedStyle.Render(left + strings.Repeat(" ", leftGap) + middle + strings.Repeat(" ", space-leftGap) + right)
}

func (m Model) simMark(s plant.Summary) string {
	if !s.Simulated {
		return ""
	}
	return SimulatedMarkStyle.Render(SimulatedMark)
}
