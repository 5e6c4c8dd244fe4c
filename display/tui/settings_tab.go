package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
)

// handleSettingsKey moves the theme cursor and applies the chosen preset.
func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.themeCursor < len(allPresets)-1 {
			m.themeCursor++
		}
	case key.Matches(msg, keys.Apply):
		preset := allPresets[m.themeCursor]
		ApplyTheme(preset)
		m.table.SetStyles(processTableStyles())
		m.status, m.statusLevel = fmt.Sprintf("theme set to %s", preset.Name), widgets.StatusOK
	}
	return m
}

// renderSettingsContent lists the theme presets with the cursor and the
// active preset marked.
func renderSettingsContent(cursor int, width int) string {
	var sections []string
	sections = append(sections, styleTitle.Render("Theme"))
	sections = append(sections, "")

	for i, p := range allPresets {
		pointer := "  "
		if i == cursor {
			pointer = "> "
		}
		marker := " "
		if p.Name == activeTheme.Name {
			marker = "*"
		}
		name := fmt.Sprintf("%s%s %-12s", pointer, marker, p.Name)
		if i == cursor {
			name = styleLabel.Render(name)
		} else {
			name = styleValue.Render(name)
		}
		sections = append(sections, name+" "+styleMuted.Render(p.Description))
	}

	sections = append(sections, "")
	sections = append(sections, styleMuted.Render(sectionTitle("up/down select, enter apply", min(width-4, 50))))
	return strings.Join(sections, "\n")
}
