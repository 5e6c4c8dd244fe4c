package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/display/widgets"
	"gitlab.com/tinyland/lab/hostpulse/internal/format"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// sleep waits for d or until ctx is done. Overridable for testing.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *cli) snapshotCmd() *cobra.Command {
	var (
		asJSON  bool
		sortKey string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Sample once and print utilization and the process table",
		Long: `snapshot runs two ticks one interval apart, so CPU figures cover a real
measurement window, then prints the second one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := c.cfg.SortKey()
			if sortKey != "" {
				k, err := monitor.ParseSortKey(sortKey)
				if err != nil {
					return err
				}
				key = k
			}

			mon, err := c.newMonitor()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			state, err := sampleTwice(ctx, mon)
			if err != nil {
				return err
			}
			state.Processes = monitor.SortProcesses(state.Processes, key, limit)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			writeSnapshot(cmd.OutOrStdout(), state, key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the state as JSON")
	cmd.Flags().StringVar(&sortKey, "sort", "", "process ordering: cpu, mem, pid or name (default display.sort)")
	cmd.Flags().IntVar(&limit, "limit", 15, "maximum number of processes to print (0 for all)")
	return cmd
}

// sampleTwice primes the CPU baselines with one tick and returns the
// state of a second tick taken one interval later.
func sampleTwice(ctx context.Context, mon *monitor.Monitor) (monitor.SystemState, error) {
	if _, err := mon.Tick(ctx); err != nil {
		return monitor.SystemState{}, err
	}
	if err := sleep(ctx, mon.Interval()); err != nil {
		return monitor.SystemState{}, errors.WrapIf(err, "snapshot interrupted")
	}
	return mon.Tick(ctx)
}

// writeSnapshot prints the utilization summary and the process table.
func writeSnapshot(w io.Writer, s monitor.SystemState, key monitor.SortKey) {
	for _, m := range []struct {
		label string
		value float64
	}{
		{"CPU", s.CPUPercent},
		{"RAM", s.RAMPercent},
		{"Disk", s.DiskPercent},
	} {
		fmt.Fprintf(w, "%s %s  %s\n", format.PadRight(m.label, 5), format.PadRight(format.Percent(m.value), 6), widgets.RenderMiniGauge(m.value, 20))
	}
	fmt.Fprintf(w, "Net   sent %s  received %s\n", format.Megabytes(s.NetSentBytes), format.Megabytes(s.NetRecvBytes))
	for _, metric := range s.Unavailable {
		fmt.Fprintf(w, "warning: %s could not be read\n", metric)
	}
	fmt.Fprintln(w)

	width, _ := widgets.DetectTerminalSize()
	nameWidth := min(max(width-32, 16), 48)

	rows := make([][]string, len(s.Processes))
	for i, p := range s.Processes {
		rows[i] = []string{
			strconv.Itoa(int(p.PID)),
			format.TruncateWithEllipsis(p.Name, nameWidth),
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.2f", p.MemPercent),
		}
	}
	title := func(k monitor.SortKey) string {
		if k == key {
			return k.Label() + "*"
		}
		return k.Label()
	}
	fmt.Fprint(w, widgets.RenderTable(widgets.TableConfig{
		Columns: []widgets.Column{
			{Title: title(monitor.SortByPID), Align: widgets.AlignRight},
			{Title: title(monitor.SortByName)},
			{Title: title(monitor.SortByCPU), Align: widgets.AlignRight},
			{Title: title(monitor.SortByMem), Align: widgets.AlignRight},
		},
		Rows: rows,
	}))
}

func (c *cli) infoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print static host information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mon, err := c.newMonitor()
			if err != nil {
				return err
			}
			info := mon.HostInfo(cmd.Context())
			if info.IsEmpty() {
				return errors.New("host information could not be read")
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			writeHostInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// writeHostInfo prints one "Label: value" line per host fact.
func writeHostInfo(w io.Writer, info hostmetrics.HostInfo) {
	rows := []struct{ label, value string }{
		{"OS", info.OS},
		{"Hostname", info.Hostname},
		{"Release", info.Release},
		{"Version", info.Version},
		{"Machine", info.Machine},
		{"Processor", info.Processor},
		{"IP Address", info.IP},
	}
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = "unknown"
		}
		fmt.Fprintf(w, "%s %s\n", format.PadRight(r.label+":", 12), value)
	}
	if !info.BootTime.IsZero() {
		fmt.Fprintf(w, "%s %s\n", format.PadRight("Booted:", 12), info.BootTime.Local().Format(time.RFC1123))
		fmt.Fprintf(w, "%s %s\n", format.PadRight("Uptime:", 12), format.FormatUptime(info.BootTime))
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WrapIf(enc.Encode(v), "encode json")
}
