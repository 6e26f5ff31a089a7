package console

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6b7785")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
)

// Styles holds the console's lipgloss styles.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Call   lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
	Panel  lipgloss.Style
}

// DefaultStyles returns the console palette.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:  lipgloss.NewStyle().Foreground(muted).Width(12),
		Value:  lipgloss.NewStyle().Bold(true),
		Call:   lipgloss.NewStyle().Foreground(muted),
		Notice: lipgloss.NewStyle().Foreground(warning),
		Error:  lipgloss.NewStyle().Foreground(danger),
		Help:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		Panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
