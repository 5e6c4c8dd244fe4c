package tui

import "github.com/charmbracelet/lipgloss"

// Styles used throughout the TUI. They are rebuilt by ApplyTheme.
var (
	styleActiveTab   lipgloss.Style
	styleInactiveTab lipgloss.Style
	styleHeader      lipgloss.Style
	styleFooter      lipgloss.Style
	styleContent     lipgloss.Style
	styleTitle       lipgloss.Style
	styleLabel       lipgloss.Style
	styleValue       lipgloss.Style
	styleMuted       lipgloss.Style
	styleError       lipgloss.Style
	styleSuccess     lipgloss.Style
)

// activeTheme is the preset the styles were last built from.
var activeTheme ThemePreset

func init() {
	ApplyTheme(NeonTheme)
}
