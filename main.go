// hostpulse is a live host resource monitor.
//
// It samples CPU, memory, disk and network utilization plus the process list
// at a fixed interval and presents the result as an interactive dashboard,
// a Prometheus exporter with a JSON API, or one-shot command output.
//
// Usage:
//
//	hostpulse                      Launch the interactive dashboard
//	hostpulse serve                Run the exporter and JSON API
//	hostpulse snapshot [--json]    Print one sample and the process table
//	hostpulse info [--json]        Print static host information
//	hostpulse chart --out cpu.png  Render the CPU history as a PNG chart
//	hostpulse health               Query a running exporter's /healthz
//	hostpulse keys                 List dashboard keybindings
//	hostpulse config init|show     Write or print the configuration
//	hostpulse version              Print version and exit
//	hostpulse man                  Print the man page
//
// Global flags:
//
//	--config string     Path to configuration file
//	--log-level string  Override log.level (debug|info|warn|error)
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/config"
	"gitlab.com/tinyland/lab/hostpulse/display/color"
	"gitlab.com/tinyland/lab/hostpulse/display/tui"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// skipSetup marks commands that run without loading the configuration.
const skipSetup = "hostpulse/skip-setup"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by all commands after setup.
type cli struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

// newSource is overridable for testing.
var newSource = func(logger *slog.Logger, interval time.Duration) hostmetrics.Source {
	return hostmetrics.NewGopsutilSource(hostmetrics.Config{
		HandleTTL: max(hostmetrics.DefaultHandleTTL, 3*interval),
		Logger:    logger,
	})
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "hostpulse",
		Short: "Live host resource monitor",
		Long: `hostpulse samples CPU, memory, disk and network utilization and the
process list at a fixed interval. Without a subcommand it opens the
interactive dashboard.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
		RunE: c.runTUI,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"path to configuration file (default: $"+config.EnvConfigPath+" or $XDG_CONFIG_HOME/hostpulse/config.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "",
		"override log.level: debug, info, warn or error")

	root.AddCommand(
		c.serveCmd(),
		c.snapshotCmd(),
		c.infoCmd(),
		c.chartCmd(),
		c.healthCmd(),
		c.configCmd(),
		keysCmd(),
		versionCmd(),
		manCmd(),
	)
	return root
}

// resolvedConfigPath returns --config or the default location.
func (c *cli) resolvedConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// setup loads and validates the configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipSetup] != "" {
		return nil
	}

	cfg, err := config.LoadConfig(c.resolvedConfigPath())
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapIf(err, "invalid configuration")
	}

	// The dashboard owns the terminal, so it only logs to a file.
	ownsTerminal := cmd == cmd.Root()
	if !ownsTerminal {
		color.Apply(cmd.OutOrStdout())
	}
	logger, closeLog, err := newLogger(cfg, ownsTerminal, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	c.closeLog = closeLog
	return nil
}

func (c *cli) close() error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// newLogger builds the text logger selected by log.level and log.file.
// Without a log file, output goes to stderr, or nowhere when the caller
// owns the terminal.
func newLogger(cfg *config.Config, ownsTerminal bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	w := stderr
	closeFn := func() error { return nil }
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.WrapIfWithDetails(err, "open log file", "path", cfg.Log.File)
		}
		w = f
		closeFn = f.Close
	case ownsTerminal:
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// newMonitor builds an idle monitor from the loaded configuration.
func (c *cli) newMonitor() (*monitor.Monitor, error) {
	opts, err := c.cfg.MonitorOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = c.logger
	return monitor.New(newSource(c.logger, opts.Interval), opts), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runTUI starts the sampler in the background and opens the dashboard.
func (c *cli) runTUI(cmd *cobra.Command, _ []string) error {
	mon, err := c.newMonitor()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	mon.Start()
	return tui.Run(ctx, mon, tui.Options{
		Sort:        c.cfg.SortKey(),
		ProcessRows: c.cfg.Display.ProcessRows,
		Theme:       c.cfg.Display.Theme,
		Logger:      c.logger,
	})
}
