package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetThemePreset(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"neon", "neon"},
		{"monitoring", "monitoring"},
		{"minimal", "minimal"},
		{"nonexistent", "neon"},
		{"", "neon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetThemePreset(tt.name).Name; got != tt.want {
				t.Errorf("GetThemePreset(%q).Name = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestAllThemePresets(t *testing.T) {
	presets := AllThemePresets()
	if len(presets) != 3 {
		t.Errorf("expected 3 presets, got %d", len(presets))
	}

	// Verify mutation safety: modifying the returned slice should not affect
	// the internal list.
	presets[0].Name = "mutated"
	original := AllThemePresets()
	if original[0].Name == "mutated" {
		t.Error("AllThemePresets should return a copy, not a reference")
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(NeonTheme)

	ApplyTheme(NeonTheme)
	beforeBg := styleActiveTab.GetBackground()

	ApplyTheme(MonitoringTheme)
	afterBg := styleActiveTab.GetBackground()

	if beforeBg == afterBg {
		t.Error("expected styleActiveTab background to change after ApplyTheme")
	}
	if activeTheme.Name != "monitoring" {
		t.Errorf("activeTheme = %q, want monitoring", activeTheme.Name)
	}
}

func TestApplyTheme_CompactMode(t *testing.T) {
	defer ApplyTheme(NeonTheme)

	// Minimal has CompactMode: true, which uses Padding(0, 1).
	ApplyTheme(MinimalTheme)
	top, right, bottom, left := styleContent.GetPadding()
	if top != 0 || bottom != 0 {
		t.Errorf("compact mode: vertical padding should be 0, got top=%d bottom=%d", top, bottom)
	}
	if right != 1 || left != 1 {
		t.Errorf("compact mode: horizontal padding should be 1, got right=%d left=%d", right, left)
	}

	ApplyTheme(NeonTheme)
	top, right, bottom, left = styleContent.GetPadding()
	if top != 1 || bottom != 1 {
		t.Errorf("neon: vertical padding should be 1, got top=%d bottom=%d", top, bottom)
	}
	if right != 2 || left != 2 {
		t.Errorf("neon: horizontal padding should be 2, got right=%d left=%d", right, left)
	}
}

func TestThemePreset_Colors(t *testing.T) {
	for _, p := range AllThemePresets() {
		if p.Description == "" {
			t.Errorf("preset %q has empty Description", p.Name)
		}
		colors := map[string]lipgloss.Color{
			"Primary":    p.Primary,
			"Secondary":  p.Secondary,
			"Accent":     p.Accent,
			"Text":       p.Text,
			"Muted":      p.Muted,
			"Background": p.Background,
			"Panel":      p.Panel,
		}
		for name, c := range colors {
			if string(c) == "" {
				t.Errorf("preset %q has empty %s color", p.Name, name)
			}
		}
	}
}
