package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	pderrors "github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/errors"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/util"
)

// Title is shown at the left of the header.
const Title = "plantdash"

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if banner := m.renderErrorBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	if m.viewMode == ViewDetail {
		if m.viewportReady {
			b.WriteString(m.detailViewport.View())
		} else {
			b.WriteString(m.renderDetailView())
		}
	} else {
		b.WriteString(m.renderPlantCards())
	}

	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	return b.String()
}

// renderHeader renders the title, poll freshness, plant count, fleet total
// and the loading or failure indicator.
func (m Model) renderHeader() string {
	st := m.state

	var updateText string
	switch secs := m.SecondsSinceUpdate(); {
	case !st.HasData():
		updateText = "never"
	case secs == 0:
		updateText = "just now"
	case secs == 1:
		updateText = "1s ago"
	default:
		updateText = fmt.Sprintf("%ds ago", secs)
	}

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render(Title)

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %d plants | %s total | last update %s",
			len(st.Summaries), formatMW(plant.TotalGeneration(st.Summaries)), updateText))

	return HeaderStyle.Render(title + stats + m.renderIndicator())
}

// renderIndicator renders the phase marker at the end of the header.
func (m Model) renderIndicator() string {
	st := m.state
	switch {
	case st.IsLoading():
		return " " + m.spinner.View() + LabelStyle.Render(" refreshing")
	case st.LastError != nil:
		code := pderrors.CodeOf(st.LastError)
		if code == "" {
			code = "ERROR"
		}
		return " " + BannerTitleStyle.Render(StatusFailed+" "+code)
	case !st.HasData():
		return LabelStyle.Render(" | waiting for first poll")
	}
	return ""
}

// renderErrorBanner renders the last poll failure with a retry hint. The
// cards below it keep showing the last good poll.
func (m Model) renderErrorBanner() string {
	err := m.state.LastError
	if err == nil {
		return ""
	}

	lines := []string{BannerTitleStyle.Render(StatusFailed + " " + pderrors.Summary(err))}

	var perr *pderrors.Error
	if errors.As(err, &perr) && perr.Suggestion != "" {
		lines = append(lines, LabelStyle.Render(perr.Suggestion))
	}

	hint := "Press r to retry now"
	if m.state.HasData() {
		hint += "; showing data from the last successful poll"
	}
	if m.retryRefused {
		hint = "A poll is already in flight"
	}
	lines = append(lines, MutedStyle.Render(hint))

	style := BannerStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderPlantCards renders the grid of plant cards.
func (m Model) renderPlantCards() string {
	st := m.state
	if len(st.Summaries) == 0 {
		switch {
		case st.HasData():
			return LabelStyle.Render("The feed returned no plants")
		case st.LastError != nil:
			return LabelStyle.Render("No data yet")
		default:
			return LabelStyle.Render(m.spinner.View() + " Waiting for the first poll...")
		}
	}

	cardWidth := m.calculateCardWidth()
	cards := make([]string, 0, len(st.Summaries))
	for i := range st.Summaries {
		s := st.Summaries[i]
		cards = append(cards, m.renderCard(s, cardWidth, s.ID == st.SelectedPlantID))
	}

	return m.layoutCards(cards)
}

// calculateCardWidth determines the card width based on terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return 40
	}
	if m.width >= BreakpointCompact {
		return 38
	}
	return m.width - 4
}

// cardsPerRow is how many cards fit side by side.
func (m Model) cardsPerRow() int {
	if m.width == 0 {
		return 1
	}
	// margin + border
	n := m.width / (m.calculateCardWidth() + 3)
	if n < 1 {
		n = 1
	}
	return n
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string) string {
	if len(cards) == 0 {
		return ""
	}

	perRow := m.cardsPerRow()
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	var hints []string
	if m.viewMode == ViewDetail {
		hints = []string{"esc back", "←→ plant", "pgup/pgdn scroll", "r retry", "? help", "q quit"}
	} else {
		hints = []string{"q quit", "r retry", "←↑↓→ select", "enter detail", "? help"}
	}
	footer := strings.Join(hints, " | ")
	if m.state.Skipped > 0 {
		footer += fmt.Sprintf(" | %d malformed %s skipped", m.state.Skipped,
			util.Pluralize(m.state.Skipped, "record", "records"))
	}
	return FooterStyle.Render(footer + " | " + SimulatedMark + " simulated")
}

// formatMW formats a power figure in MW, switching to GW for large fleets.
func formatMW(mw float64) string {
	if mw >= 10000 || mw <= -10000 {
		return fmt.Sprintf("%.2f GW", mw/1000)
	}
	return fmt.Sprintf("%.1f MW", mw)
}
