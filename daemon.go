package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"emperror.dev/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/hostpulse/config"
	"gitlab.com/tinyland/lab/hostpulse/exporter"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// daemon runs the sampler and the HTTP exporter side by side until its
// context is cancelled.
type daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	mon     *monitor.Monitor
	srv     *exporter.Server
	pidFile string

	// listener, if set, is served instead of binding cfg.Server.Listen.
	listener net.Listener
}

func (c *cli) serveCmd() *cobra.Command {
	var (
		listen         string
		allowTerminate bool
		pidFile        string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sampler with the Prometheus exporter and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				c.cfg.Server.Listen = listen
			}
			if cmd.Flags().Changed("allow-terminate") {
				c.cfg.Server.AllowTerminate = allowTerminate
			}

			d, err := c.newDaemon(pidFile)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return d.run(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "host:port to bind (overrides server.listen)")
	cmd.Flags().BoolVar(&allowTerminate, "allow-terminate", false,
		"enable POST /api/processes/{pid}/terminate (overrides server.allow_terminate)")
	cmd.Flags().StringVar(&pidFile, "pid-file", "", "write the process id to this file while running")
	return cmd
}

// newDaemon wires a monitor and an exporter from the loaded configuration.
func (c *cli) newDaemon(pidFile string) (*daemon, error) {
	mon, err := c.newMonitor()
	if err != nil {
		return nil, err
	}
	srv := exporter.NewServer(mon, exporter.Options{
		Listen:         c.cfg.Server.Listen,
		AllowTerminate: c.cfg.Server.AllowTerminate,
		Logger:         c.logger,
	})
	return &daemon{
		cfg:     c.cfg,
		logger:  c.logger,
		mon:     mon,
		srv:     srv,
		pidFile: pidFile,
	}, nil
}

// writePIDFile writes the current process id to the PID file.
func (d *daemon) writePIDFile() error {
	if err := os.MkdirAll(filepath.Dir(d.pidFile), 0o755); err != nil {
		return errors.WrapIfWithDetails(err, "create PID file directory", "path", d.pidFile)
	}
	pid := os.Getpid()
	if err := os.WriteFile(d.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return errors.WrapIfWithDetails(err, "write PID file", "path", d.pidFile)
	}
	d.logger.Info("wrote PID file", "path", d.pidFile, "pid", pid)
	return nil
}

// removePIDFile removes the PID file on shutdown.
func (d *daemon) removePIDFile() {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		d.logger.Error("failed to remove PID file", "path", d.pidFile, "error", err)
		return
	}
	d.logger.Info("removed PID file", "path", d.pidFile)
}

// isRunning reports whether the PID file names a live process. Corrupt or
// stale PID files are removed.
func (d *daemon) isRunning() (bool, int) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		d.logger.Warn("corrupt PID file, removing", "path", d.pidFile, "content", string(data))
		os.Remove(d.pidFile)
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		os.Remove(d.pidFile)
		return false, 0
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		d.logger.Warn("stale PID file, removing", "path", d.pidFile, "pid", pid)
		os.Remove(d.pidFile)
		return false, 0
	}

	return true, pid
}

// run samples and serves until ctx is cancelled. If either side fails, the
// other is stopped and the first error is returned.
func (d *daemon) run(ctx context.Context) error {
	if d.pidFile != "" {
		if running, pid := d.isRunning(); running {
			return errors.NewWithDetails("daemon already running", "pid", pid, "pid_file", d.pidFile)
		}
		if err := d.writePIDFile(); err != nil {
			return err
		}
		defer d.removePIDFile()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.mon.Run(ctx)
	})
	g.Go(func() error {
		if d.listener != nil {
			return d.srv.Serve(ctx, d.listener)
		}
		return d.srv.ListenAndServe(ctx)
	})

	err := g.Wait()
	d.logger.Info("daemon shutting down", "ticks", d.mon.Current().Tick)
	return err
}
