package tui

import "github.com/charmbracelet/lipgloss"

// ThemePreset defines a complete color scheme and layout configuration
// that can be applied at runtime from the Settings tab.
type ThemePreset struct {
	Name        string
	Description string
	// Colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Panel      lipgloss.Color
	// Layout
	ShowBorders bool
	CompactMode bool
}

// Predefined theme presets.
var (
	// NeonTheme is the default: cyan on near-black with a magenta accent.
	NeonTheme = ThemePreset{
		Name:        "neon",
		Description: "Neon cyan on dark",
		Primary:     lipgloss.Color("#00FFCC"),
		Secondary:   lipgloss.Color("#00FFCC"),
		Accent:      lipgloss.Color("#FF0055"),
		Text:        lipgloss.Color("#C9D1D9"),
		Muted:       lipgloss.Color("#6E7681"),
		Background:  lipgloss.Color("#0D1117"),
		Panel:       lipgloss.Color("#161B22"),
		ShowBorders: true,
		CompactMode: false,
	}

	// MonitoringTheme is a purple dark theme.
	MonitoringTheme = ThemePreset{
		Name:        "monitoring",
		Description: "Dark theme for status monitoring",
		Primary:     lipgloss.Color("#7C3AED"),
		Secondary:   lipgloss.Color("#06B6D4"),
		Accent:      lipgloss.Color("#EF4444"),
		Text:        lipgloss.Color("#FFFFFF"),
		Muted:       lipgloss.Color("#6B7280"),
		Background:  lipgloss.Color("#1E1B2E"),
		Panel:       lipgloss.Color("#2A2540"),
		ShowBorders: true,
		CompactMode: false,
	}

	// MinimalTheme is a clean, low-distraction theme.
	MinimalTheme = ThemePreset{
		Name:        "minimal",
		Description: "Clean minimal theme",
		Primary:     lipgloss.Color("#8B5CF6"),
		Secondary:   lipgloss.Color("#67E8F9"),
		Accent:      lipgloss.Color("#F87171"),
		Text:        lipgloss.Color("#E5E7EB"),
		Muted:       lipgloss.Color("#9CA3AF"),
		Background:  lipgloss.Color("#0F172A"),
		Panel:       lipgloss.Color("#1E293B"),
		ShowBorders: false,
		CompactMode: true,
	}
)

// allPresets is the canonical list of available theme presets.
var allPresets = []ThemePreset{NeonTheme, MonitoringTheme, MinimalTheme}

// GetThemePreset returns the theme preset matching the given name.
// Unknown names return NeonTheme as the default.
func GetThemePreset(name string) ThemePreset {
	for _, p := range allPresets {
		if p.Name == name {
			return p
		}
	}
	return NeonTheme
}

// AllThemePresets returns all available theme presets.
func AllThemePresets() []ThemePreset {
	out := make([]ThemePreset, len(allPresets))
	copy(out, allPresets)
	return out
}

// ApplyTheme updates the package-level style variables to use the given
// preset's colors. This allows runtime theme switching without restarting
// the application.
func ApplyTheme(preset ThemePreset) {
	activeTheme = preset

	styleActiveTab = lipgloss.NewStyle().
		Bold(true).
		Foreground(preset.Background).
		Background(preset.Primary).
		Padding(0, 2)

	styleInactiveTab = lipgloss.NewStyle().
		Foreground(preset.Muted).
		Padding(0, 2)

	if preset.ShowBorders {
		styleHeader = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(preset.Muted).
			MarginBottom(1)
	} else {
		styleHeader = lipgloss.NewStyle().
			MarginBottom(1)
	}

	styleFooter = lipgloss.NewStyle().
		Foreground(preset.Muted).
		MarginTop(1)

	if preset.CompactMode {
		styleContent = lipgloss.NewStyle().
			Padding(0, 1)
	} else {
		styleContent = lipgloss.NewStyle().
			Padding(1, 2)
	}

	styleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(preset.Secondary)

	styleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(preset.Primary)

	styleValue = lipgloss.NewStyle().
		Foreground(preset.Text)

	styleMuted = lipgloss.NewStyle().
		Foreground(preset.Muted)

	styleError = lipgloss.NewStyle().
		Bold(true).
		Foreground(preset.Accent)

	styleSuccess = lipgloss.NewStyle().
		Foreground(preset.Secondary)
}
