package main

import (
	"fmt"

	"emperror.dev/errors"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/hostpulse/display/chart"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

func (c *cli) chartCmd() *cobra.Command {
	var (
		out     string
		samples int
		width   int
		height  int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Sample CPU for a while and render the history as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samples < 2 || samples > monitor.HistoryCapacity {
				return errors.NewWithDetails("samples out of range",
					"samples", samples, "min", 2, "max", monitor.HistoryCapacity)
			}

			mon, err := c.newMonitor()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// The first tick only primes CPU baselines.
			if _, err := mon.Tick(ctx); err != nil {
				return err
			}
			for i := 0; i < samples; i++ {
				if err := sleep(ctx, mon.Interval()); err != nil {
					return errors.WrapIf(err, "chart interrupted")
				}
				if _, err := mon.Tick(ctx); err != nil {
					return err
				}
			}

			cfg := chart.DefaultConfig()
			cfg.Width, cfg.Height = width, height
			history := mon.History()
			// Drop the priming sample.
			if len(history) > samples {
				history = history[len(history)-samples:]
			}
			if err := chart.Save(out, history, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", len(history), out)
			return nil
		},
	}

	def := chart.DefaultConfig()
	cmd.Flags().StringVarP(&out, "out", "o", "cpu.png", "output PNG path")
	cmd.Flags().IntVar(&samples, "samples", 10, "number of CPU samples to collect")
	cmd.Flags().IntVar(&width, "width", def.Width, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", def.Height, "image height in pixels")
	return cmd
}
