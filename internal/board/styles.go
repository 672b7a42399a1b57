package board

import (
	"github.com/TristoneFM/material-request-mes/internal/timeband"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleBold   = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	styleChipOn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#282828")).Background(colorGreen).Padding(0, 1)
	styleChipOff = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
)

// bandStyle maps an urgency band to its timer color.
func bandStyle(b timeband.Band) lipgloss.Style {
	switch b {
	case timeband.BandCritical:
		return styleRed
	case timeband.BandWarning:
		return styleYellow
	default:
		return styleGreen
	}
}
