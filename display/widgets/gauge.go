// Package widgets renders the small text building blocks of the hostpulse
// TUI and CLI output: gauges, sparklines, status dots and plain tables.
package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GaugeConfig controls the appearance of a horizontal percentage bar.
type GaugeConfig struct {
	// Width is the character width of the bar itself.
	Width int
	// Percent is the value from 0 to 100.
	Percent float64
	// Label is optional text shown to the left of the bar.
	Label string
	// ShowPercent appends the value as "XX.X%".
	ShowPercent bool
	// Stale marks a value carried over from an earlier tick. The bar is
	// drawn muted and suffixed with "(stale)".
	Stale bool
	// ThresholdWarning is the % at which the bar turns yellow (default: 70).
	ThresholdWarning float64
	// ThresholdDanger is the % at which the bar turns red (default: 90).
	ThresholdDanger float64
}

// DefaultGaugeConfig returns a GaugeConfig with sensible defaults.
func DefaultGaugeConfig() GaugeConfig {
	return GaugeConfig{
		Width:            30,
		ShowPercent:      true,
		ThresholdWarning: 70,
		ThresholdDanger:  90,
	}
}

// Gauge palette.
var (
	colorOK      = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#EAB308")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// GaugeColor returns the bar color for percent given the thresholds. Zero
// thresholds select 70 and 90.
func GaugeColor(percent, warning, danger float64) lipgloss.Color {
	if warning <= 0 {
		warning = 70
	}
	if danger <= 0 {
		danger = 90
	}
	switch {
	case percent >= danger:
		return colorDanger
	case percent >= warning:
		return colorWarning
	default:
		return colorOK
	}
}

// RenderGauge renders a bar gauge.
// Format: [Label] ████████░░░░ [XX.X%] [(stale)]
func RenderGauge(cfg GaugeConfig) string {
	percent := cfg.Percent
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = math.Max(0, math.Min(100, percent))

	width := cfg.Width
	if width <= 0 {
		width = 30
	}

	filled := int(math.Round(percent / 100 * float64(width)))
	color := GaugeColor(percent, cfg.ThresholdWarning, cfg.ThresholdDanger)
	if cfg.Stale {
		color = colorMuted
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		strings.Repeat("░", width-filled)

	var sb strings.Builder
	if cfg.Label != "" {
		sb.WriteString(cfg.Label)
		sb.WriteString(" ")
	}
	sb.WriteString(bar)
	if cfg.ShowPercent {
		sb.WriteString(fmt.Sprintf(" %5.1f%%", percent))
	}
	if cfg.Stale {
		sb.WriteString(lipgloss.NewStyle().Foreground(colorMuted).Render(" (stale)"))
	}
	return sb.String()
}

// RenderMiniGauge renders a compact bar with no label or text.
func RenderMiniGauge(percent float64, width int) string {
	return RenderGauge(GaugeConfig{Width: width, Percent: percent})
}
