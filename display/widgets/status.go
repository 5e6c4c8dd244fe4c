package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// StatusLevel represents the severity or state of a status indicator.
type StatusLevel int

const (
	// StatusOK indicates a healthy or successful state.
	StatusOK StatusLevel = iota
	// StatusWarning indicates a degraded state, e.g. a stale metric.
	StatusWarning
	// StatusCritical indicates a failed action.
	StatusCritical
	// StatusPending indicates the sampler has not published yet.
	StatusPending
)

// StatusConfig holds the configuration for rendering a status indicator.
type StatusConfig struct {
	// Level determines the color and icon.
	Level StatusLevel
	// Text is the label shown next to the indicator.
	Text string
	// ShowIcon controls whether the colored dot is shown.
	ShowIcon bool
}

var statusIcons = map[StatusLevel]string{
	StatusOK:       "●",
	StatusWarning:  "●",
	StatusCritical: "●",
	StatusPending:  "◌",
}

var statusColors = map[StatusLevel]lipgloss.Color{
	StatusOK:       colorOK,
	StatusWarning:  colorWarning,
	StatusCritical: colorDanger,
	StatusPending:  lipgloss.Color("#3B82F6"),
}

// RenderStatus renders a status indicator with an optional colored icon and text.
func RenderStatus(cfg StatusConfig) string {
	style := lipgloss.NewStyle().Foreground(statusColors[cfg.Level])

	if cfg.ShowIcon {
		icon := style.Render(statusIcons[cfg.Level])
		if cfg.Text == "" {
			return icon
		}
		return icon + " " + cfg.Text
	}

	return style.Render(cfg.Text)
}

// SamplerStatus summarizes a published state for a header line: pending
// before the first tick, warning while any metric is stale, ok otherwise.
func SamplerStatus(tick uint64, unavailable []string) StatusLevel {
	switch {
	case tick == 0:
		return StatusPending
	case len(unavailable) > 0:
		return StatusWarning
	default:
		return StatusOK
	}
}
