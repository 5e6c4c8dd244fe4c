package tui

import (
	"strings"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/internal/format"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// renderNetworkContent renders cumulative traffic and the rate between the
// two most recent polls.
func renderNetworkContent(s, prev monitor.SystemState) string {
	if s.IsZero() {
		return styleMuted.Render("Waiting for the first sample...")
	}

	sentRate, recvRate, ok := networkRates(s, prev)
	rate := func(v uint64) string {
		if !ok {
			return styleMuted.Render("--")
		}
		return styleValue.Render(format.Bytes(v) + "/s")
	}

	sections := []string{
		styleTitle.Render("Network Traffic"),
		"",
		styleLabel.Render("Sent:     ") + styleValue.Render(format.Megabytes(s.NetSentBytes)) + "  " + rate(sentRate),
		styleLabel.Render("Received: ") + styleValue.Render(format.Megabytes(s.NetRecvBytes)) + "  " + rate(recvRate),
	}
	if s.IsUnavailable(hostmetrics.MetricNetwork) {
		sections = append(sections, "", styleError.Render("Network counters could not be read on the last tick."))
	}
	sections = append(sections, "", styleMuted.Render("Totals since boot, summed over all interfaces."))
	return strings.Join(sections, "\n")
}

// networkRates returns bytes per second between prev and s. ok is false
// when there is no usable earlier sample or a counter went backwards.
func networkRates(s, prev monitor.SystemState) (sent, recv uint64, ok bool) {
	if prev.IsZero() || !s.SampledAt.After(prev.SampledAt) {
		return 0, 0, false
	}
	if s.NetSentBytes < prev.NetSentBytes || s.NetRecvBytes < prev.NetRecvBytes {
		return 0, 0, false
	}
	secs := s.SampledAt.Sub(prev.SampledAt).Seconds()
	sent = uint64(float64(s.NetSentBytes-prev.NetSentBytes) / secs)
	recv = uint64(float64(s.NetRecvBytes-prev.NetRecvBytes) / secs)
	return sent, recv, true
}
