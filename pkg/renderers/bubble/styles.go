package bubble

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Valid   lipgloss.Style
	Invalid lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Footer  lipgloss.Style
}

// DefaultStyles returns the stock palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Bold(true),
		Focused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c3aed")),
		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Italic(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		Footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).MarginTop(1),
	}
}

// PlainStyles renders without colors or decoration.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Label:   plain,
		Focused: plain,
		Valid:   plain,
		Invalid: plain,
		Muted:   plain,
		Error:   plain,
		Footer:  plain,
	}
}
