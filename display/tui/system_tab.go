package tui

import (
	"strings"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/internal/format"
)

// renderSystemContent renders the System Info tab from the static host
// description.
func renderSystemContent(info hostmetrics.HostInfo, width int) string {
	if info.IsEmpty() {
		return styleMuted.Render("Host information not available yet.")
	}

	var sections []string
	sections = append(sections, styleTitle.Render("System Information"))
	sections = append(sections, "")

	rows := []struct {
		label string
		value string
	}{
		{"OS", info.OS},
		{"Hostname", info.Hostname},
		{"Release", info.Release},
		{"Version", info.Version},
		{"Machine", info.Machine},
		{"Processor", info.Processor},
		{"IP Address", info.IP},
	}

	valueWidth := width - 20
	if valueWidth < 10 {
		valueWidth = 10
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		line := styleLabel.Render(format.PadRight(r.label+":", 12)) + " " +
			styleValue.Render(format.TruncateWithEllipsis(r.value, valueWidth))
		sections = append(sections, line)
	}

	if !info.BootTime.IsZero() {
		sections = append(sections, "")
		sections = append(sections, styleMuted.Render(horizontalRule(min(valueWidth, 40))))
		sections = append(sections, styleLabel.Render(format.PadRight("Booted:", 12))+" "+
			styleValue.Render(info.BootTime.Local().Format("2006-01-02 15:04:05")))
		sections = append(sections, styleLabel.Render(format.PadRight("Uptime:", 12))+" "+
			styleValue.Render(format.FormatUptime(info.BootTime)))
	}

	return strings.Join(sections, "\n")
}
