// Package config provides configuration parsing for hostpulse.
package config

import (
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "HOSTPULSE_CONFIG"

// Config represents the hostpulse configuration.
type Config struct {
	// Monitor holds sampler settings.
	Monitor MonitorConfig `yaml:"monitor"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log"`

	// Server holds HTTP exporter settings.
	Server ServerConfig `yaml:"server"`

	// Display holds TUI rendering settings.
	Display DisplayConfig `yaml:"display"`
}

// MonitorConfig holds sampler settings.
type MonitorConfig struct {
	// Interval is a duration string (e.g. "2s") slept between ticks.
	Interval string `yaml:"interval"`
	// DiskPath is the filesystem whose usage is reported.
	DiskPath string `yaml:"disk_path"`
	// QueryTimeout is a duration string bounding the OS queries of one tick.
	// "0" or empty disables the bound.
	QueryTimeout string `yaml:"query_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File is the path for log output. Empty means stderr for headless
	// commands and no logging for the TUI.
	File string `yaml:"file"`
}

// ServerConfig holds HTTP exporter settings.
type ServerConfig struct {
	// Listen is the host:port address for `hostpulse serve`.
	Listen string `yaml:"listen"`
	// AllowTerminate enables the process termination endpoint.
	AllowTerminate bool `yaml:"allow_terminate"`
}

// DisplayConfig holds TUI rendering settings.
type DisplayConfig struct {
	// ProcessRows is the number of rows in the process table.
	ProcessRows int `yaml:"process_rows"`
	// Sort is the initial process ordering: cpu, mem, pid or name.
	Sort string `yaml:"sort"`
	// Theme names the TUI color preset. Unknown names fall back to the
	// default preset.
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{
			Interval:     "2s",
			DiskPath:     "/",
			QueryTimeout: "0",
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
		Server: ServerConfig{
			Listen:         "127.0.0.1:9273",
			AllowTerminate: false,
		},
		Display: DisplayConfig{
			ProcessRows: 20,
			Sort:        string(monitor.SortByCPU),
			Theme:       "neon",
		},
	}
}

// DefaultPath returns the config file location: $HOSTPULSE_CONFIG if set,
// else $XDG_CONFIG_HOME/hostpulse/config.yaml, else
// ~/.config/hostpulse/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hostpulse", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hostpulse", "config.yaml")
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.WrapIfWithDetails(err, "read config", "path", path)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.WrapIfWithDetails(err, "parse config", "path", path)
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	// Monitor validation
	interval, err := c.Interval()
	if err != nil {
		return err
	}
	if interval <= 0 {
		return errors.Errorf("monitor.interval must be positive, got %q", c.Monitor.Interval)
	}
	if c.Monitor.DiskPath == "" {
		return errors.New("monitor.disk_path is required")
	}
	if _, err := c.QueryTimeout(); err != nil {
		return err
	}

	// Log validation
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	// Server validation
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return errors.Errorf("server.listen must be host:port, got %q", c.Server.Listen)
	}

	// Display validation
	if c.Display.ProcessRows < 1 {
		return errors.Errorf("display.process_rows must be at least 1, got %d", c.Display.ProcessRows)
	}
	if _, err := monitor.ParseSortKey(c.Display.Sort); err != nil {
		return errors.Errorf("display.sort must be 'cpu', 'mem', 'pid', or 'name', got %q", c.Display.Sort)
	}

	return nil
}

// Interval parses monitor.interval.
func (c *Config) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Monitor.Interval)
	if err != nil {
		return 0, errors.Errorf("monitor.interval is not a duration: %q", c.Monitor.Interval)
	}
	return d, nil
}

// QueryTimeout parses monitor.query_timeout. Empty and "0" mean no timeout.
func (c *Config) QueryTimeout() (time.Duration, error) {
	s := strings.TrimSpace(c.Monitor.QueryTimeout)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.Errorf("monitor.query_timeout must be a non-negative duration, got %q", c.Monitor.QueryTimeout)
	}
	return d, nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level)
}

// SortKey returns display.sort as a monitor.SortKey, falling back to CPU
// order when the value is invalid.
func (c *Config) SortKey() monitor.SortKey {
	k, err := monitor.ParseSortKey(c.Display.Sort)
	if err != nil {
		return monitor.SortByCPU
	}
	return k
}

// MonitorOptions builds the sampler configuration. The caller sets the
// logger and tick hook.
func (c *Config) MonitorOptions() (monitor.Config, error) {
	interval, err := c.Interval()
	if err != nil {
		return monitor.Config{}, err
	}
	timeout, err := c.QueryTimeout()
	if err != nil {
		return monitor.Config{}, err
	}
	return monitor.Config{
		Interval:     interval,
		DiskPath:     c.Monitor.DiskPath,
		QueryTimeout: timeout,
	}, nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapIf(err, "create config dir")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.WrapIf(err, "encode config")
	}

	return errors.WrapIf(os.WriteFile(path, data, 0644), "write config")
}
