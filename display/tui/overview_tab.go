package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// renderOverviewContent renders CPU and RAM gauges above the CPU history.
func renderOverviewContent(s monitor.SystemState, layout LayoutConfig, width int) string {
	if s.IsZero() {
		return styleMuted.Render("Waiting for the first sample...")
	}

	gauge := func(label string, pct float64, stale bool) string {
		cfg := widgets.DefaultGaugeConfig()
		cfg.Width = layout.GaugeWidth
		cfg.Label = styleLabel.Render(fmt.Sprintf("%-4s", label))
		cfg.Percent = pct
		cfg.Stale = stale
		return widgets.RenderGauge(cfg)
	}

	var sections []string
	sections = append(sections, styleTitle.Render("Utilization"))
	sections = append(sections, "")
	sections = append(sections, gauge("CPU", s.CPUPercent, false))
	sections = append(sections, gauge("RAM", s.RAMPercent, s.IsUnavailable(hostmetrics.MetricMemory)))
	sections = append(sections, "")

	title := fmt.Sprintf("CPU history (%d of %d samples)", len(s.History), monitor.HistoryCapacity)
	sections = append(sections, sectionTitle(title, min(width-4, layout.TrendWidth+2)))

	if layout.TrendHeight > 0 {
		for _, row := range widgets.RenderTrend(s.History, layout.TrendWidth, layout.TrendHeight) {
			sections = append(sections, styleSuccess.Render(row))
		}
	} else {
		sections = append(sections, widgets.RenderPercentSparkline(s.History, layout.TrendWidth, activeTheme.Secondary))
	}

	return strings.Join(sections, "\n")
}
