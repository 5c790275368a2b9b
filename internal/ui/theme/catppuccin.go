package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	// Phase colours for the interval and rest widgets.
	Work    = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Resting = lipgloss.NewStyle().Foreground(Green).Bold(true)
	SetRest = lipgloss.NewStyle().Foreground(Yellow).Bold(true)

	Clock = lipgloss.NewStyle().Foreground(Lavender).Bold(true)

	Banner = lipgloss.NewStyle().
		Background(Green).
		Foreground(Base).
		Bold(true).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	Done     = lipgloss.NewStyle().Foreground(Green)
)
