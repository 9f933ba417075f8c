package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/markandrewjohnrice/aeso-power-plant-dashboard/internal/plant"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for generation against the plant's operating band
	ColorHealthy  = lipgloss.Color("#39FF14") // inside the band
	ColorWarning  = lipgloss.Color("#FFAA00") // near a limit
	ColorCritical = lipgloss.Color("#FF0055") // outside the band, or a failed poll

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	ColorGraph    = lipgloss.Color("#00FFFF")
	ColorDispatch = lipgloss.Color("#BF40FF")
)

// Thresholds
const (
	// LimitMarginFraction is how close to a limit, as a share of the band,
	// generation has to be before it is flagged.
	LimitMarginFraction = 0.1
	// LowCapacityFactor flags plants running well under their capability.
	LowCapacityFactor = 30.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	// Card styles - no background set here, each line handles its own
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	PlantNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StatusOnlineStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	SimulatedMarkStyle = lipgloss.NewStyle().
				Foreground(ColorAccentDim)

	BannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCritical).
			Foreground(ColorTextPrimary).
			Padding(0, 1)

	BannerTitleStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)
)

// Status glyphs
const (
	StatusOnline   = "◉"
	StatusFailed   = "✗"
	SimulatedMark  = "*"
	LimitSeparator = "-"
)

// LimitColor grades a generation value against its lower and upper limits.
func LimitColor(value, lower, upper float64) lipgloss.Color {
	if value < lower || value > upper {
		return ColorCritical
	}
	margin := (upper - lower) * LimitMarginFraction
	if value-lower < margin || upper-value < margin {
		return ColorWarning
	}
	return ColorHealthy
}

// CapacityFactorColor colors a capacity factor; unknown values are muted.
func CapacityFactorColor(p plant.Percent) lipgloss.Color {
	switch {
	case !p.Known():
		return ColorTextMuted
	case p.Float() < LowCapacityFactor:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// LimitStyle returns a foreground style for LimitColor.
func LimitStyle(value, lower, upper float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LimitColor(value, lower, upper))
}
