package report

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#10B981") // Green
	errorColor   = lipgloss.Color("#F87171") // Red
	warningColor = lipgloss.Color("#F59E0B") // Amber
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// paint renders s with style when styling is enabled.
func (c *Console) paint(style lipgloss.Style, s string) string {
	if !c.styled {
		return s
	}
	return style.Render(s)
}
