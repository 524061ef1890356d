package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	correct   lipgloss.Style
	incorrect lipgloss.Style
	pending   lipgloss.Style
	current   lipgloss.Style
	cursor    lipgloss.Style
	header    lipgloss.Style
	footer    lipgloss.Style
	value     lipgloss.Style
	panel     lipgloss.Style
	levelUp   lipgloss.Style
	err       lipgloss.Style
}

type palette struct {
	text, wrong, muted, accent, border lipgloss.TerminalColor
}

var (
	darkPalette = palette{
		text:   lipgloss.Color("#F0F0F0"),
		wrong:  lipgloss.Color("#FF4D4F"),
		muted:  lipgloss.Color("#8C8C8C"),
		accent: lipgloss.Color("#C89A3A"),
		border: lipgloss.Color("#6E6E6E"),
	}
	lightPalette = palette{
		text:   lipgloss.Color("#1F1F1F"),
		wrong:  lipgloss.Color("#CF1322"),
		muted:  lipgloss.Color("#8C8C8C"),
		accent: lipgloss.Color("#AD6800"),
		border: lipgloss.Color("#BFBFBF"),
	}
	systemPalette = palette{
		text:   lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#F0F0F0"},
		wrong:  lipgloss.AdaptiveColor{Light: "#CF1322", Dark: "#FF4D4F"},
		muted:  lipgloss.Color("#8C8C8C"),
		accent: lipgloss.AdaptiveColor{Light: "#AD6800", Dark: "#C89A3A"},
		border: lipgloss.AdaptiveColor{Light: "#BFBFBF", Dark: "#6E6E6E"},
	}
)

// newStyles builds the style set for a theme name: light, dark or system.
func newStyles(theme string) styles {
	p := systemPalette
	switch theme {
	case "light":
		p = lightPalette
	case "dark":
		p = darkPalette
	}
	return styles{
		correct:   lipgloss.NewStyle().Foreground(p.text),
		incorrect: lipgloss.NewStyle().Foreground(p.wrong),
		pending:   lipgloss.NewStyle().Foreground(p.muted),
		current:   lipgloss.NewStyle().Foreground(p.accent),
		cursor:    lipgloss.NewStyle().Foreground(p.accent).Underline(true),
		header:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		footer:    lipgloss.NewStyle().Foreground(p.border),
		value:     lipgloss.NewStyle().Foreground(p.text).Bold(true),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(1, 3),
		levelUp:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		err:       lipgloss.NewStyle().Foreground(p.wrong),
	}
}
