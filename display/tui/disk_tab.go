package tui

import (
	"strings"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// renderDiskContent renders usage of the monitored filesystem.
func renderDiskContent(s monitor.SystemState, layout LayoutConfig) string {
	if s.IsZero() {
		return styleMuted.Render("Waiting for the first sample...")
	}

	cfg := widgets.DefaultGaugeConfig()
	cfg.Width = layout.GaugeWidth
	cfg.Label = styleLabel.Render("Used")
	cfg.Percent = s.DiskPercent
	cfg.Stale = s.IsUnavailable(hostmetrics.MetricDisk)

	sections := []string{
		styleTitle.Render("Disk Usage"),
		"",
		widgets.RenderGauge(cfg),
	}
	if cfg.Stale {
		sections = append(sections, "", styleError.Render("Disk usage could not be read on the last tick."))
	}
	return strings.Join(sections, "\n")
}
