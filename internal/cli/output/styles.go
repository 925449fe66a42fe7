package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer so color output
// follows that renderer's profile.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).MarginBottom(1),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA")),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Key:     lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#D1D5DB")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Error:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
	}
}
