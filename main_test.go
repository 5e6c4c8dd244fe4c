package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/config"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// staticSource reports fixed values on every call.
type staticSource struct {
	host hostmetrics.HostInfo
}

func (staticSource) SampleCPU(context.Context) float64 { return 25 }

func (staticSource) SampleMemory(context.Context) (float64, error) { return 50, nil }

func (staticSource) SampleDisk(context.Context, string) (float64, error) { return 75, nil }

func (staticSource) SampleNetwork(context.Context) (hostmetrics.NetCounters, error) {
	return hostmetrics.NetCounters{BytesSent: 3 * 1024 * 1024, BytesRecv: 1024 * 1024}, nil
}

func (staticSource) ListProcesses(context.Context) ([]hostmetrics.ProcessRecord, error) {
	return []hostmetrics.ProcessRecord{
		{PID: 300, Name: "editor", CPUPercent: 4, MemPercent: 8.5},
		{PID: 1, Name: "init", CPUPercent: 0.1, MemPercent: 0.2},
		{PID: 42, Name: "compiler", CPUPercent: 90, MemPercent: 12.25},
	}, nil
}

func (staticSource) Terminate(context.Context, int32) error { return nil }

func (s staticSource) HostInfo(context.Context) (hostmetrics.HostInfo, error) {
	return s.host, nil
}

// useStaticSource swaps the metric source and the sleep for the test.
func useStaticSource(t *testing.T, src hostmetrics.Source) {
	t.Helper()
	origSource, origSleep := newSource, sleep
	newSource = func(*slog.Logger, time.Duration) hostmetrics.Source { return src }
	sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	t.Cleanup(func() {
		newSource, sleep = origSource, origSleep
	})
}

// writeConfig writes cfg to a temp file and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "hostpulse "+version) {
		t.Errorf("output = %q", out)
	}
}

func TestManCommand(t *testing.T) {
	out, err := execute(t, "man")
	if err != nil {
		t.Fatalf("man: %v", err)
	}
	for _, want := range []string{".TH HOSTPULSE 1", ".SS serve", ".SS config init", ".SS snapshot", `\-\-pid\-file`} {
		if !strings.Contains(out, want) {
			t.Errorf("man page missing %q", want)
		}
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Monitor.Interval = "soon"
	path := writeConfig(t, cfg)

	if _, err := execute(t, "--config", path, "snapshot"); err == nil {
		t.Fatal("expected invalid interval to fail setup")
	}
}

func TestSetup_LogLevelOverride(t *testing.T) {
	path := writeConfig(t, config.DefaultConfig())

	if _, err := execute(t, "--config", path, "--log-level", "loud", "config", "show"); err == nil {
		t.Fatal("expected unknown --log-level to fail")
	}

	out, err := execute(t, "--config", path, "--log-level", "debug", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "level: debug") {
		t.Errorf("override not applied:\n%s", out)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.File = filepath.Join(t.TempDir(), "hostpulse.log")

		logger, closeLog, err := newLogger(cfg, true, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("newLogger: %v", err)
		}
		logger.Info("hello", "k", "v")
		if err := closeLog(); err != nil {
			t.Fatalf("close: %v", err)
		}

		data, err := os.ReadFile(cfg.Log.File)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		if !strings.Contains(string(data), "msg=hello k=v") {
			t.Errorf("log file = %q", data)
		}
	})

	t.Run("stderr", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, _, err := newLogger(config.DefaultConfig(), false, &stderr)
		if err != nil {
			t.Fatalf("newLogger: %v", err)
		}
		logger.Debug("hidden")
		logger.Info("shown")
		if strings.Contains(stderr.String(), "hidden") || !strings.Contains(stderr.String(), "shown") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("terminal owner discards", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, _, err := newLogger(config.DefaultConfig(), true, &stderr)
		if err != nil {
			t.Fatalf("newLogger: %v", err)
		}
		logger.Error("quiet")
		if stderr.Len() != 0 {
			t.Errorf("stderr = %q, want nothing", stderr.String())
		}
	})

	t.Run("bad level", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.Level = "chatty"
		if _, _, err := newLogger(cfg, false, &bytes.Buffer{}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSnapshotCommand(t *testing.T) {
	useStaticSource(t, staticSource{})
	path := writeConfig(t, config.DefaultConfig())

	out, err := execute(t, "--config", path, "snapshot", "--limit", "2")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	for _, want := range []string{"CPU   25.0%", "RAM   50.0%", "Disk  75.0%", "sent 3.00 MB", "CPU%*", "compiler", "editor"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "init") {
		t.Errorf("limit 2 should drop the idle process:\n%s", out)
	}
	if strings.Index(out, "compiler") > strings.Index(out, "editor") {
		t.Errorf("expected cpu order:\n%s", out)
	}
}

func TestSnapshotCommand_JSON(t *testing.T) {
	useStaticSource(t, staticSource{})
	path := writeConfig(t, config.DefaultConfig())

	out, err := execute(t, "--config", path, "snapshot", "--json", "--sort", "pid", "--limit", "0")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	var state monitor.SystemState
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if state.Tick != 2 {
		t.Errorf("tick = %d, want 2 (priming tick plus measured tick)", state.Tick)
	}
	if len(state.History) != 2 {
		t.Errorf("history = %v", state.History)
	}
	var got []int32
	for _, p := range state.Processes {
		got = append(got, p.PID)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 42 || got[2] != 300 {
		t.Errorf("pid order = %v", got)
	}
}

func TestSnapshotCommand_BadSort(t *testing.T) {
	useStaticSource(t, staticSource{})
	path := writeConfig(t, config.DefaultConfig())

	if _, err := execute(t, "--config", path, "snapshot", "--sort", "age"); err == nil {
		t.Fatal("expected unknown sort key to fail")
	}
}

func TestInfoCommand(t *testing.T) {
	useStaticSource(t, staticSource{host: hostmetrics.HostInfo{
		OS:       "linux",
		Hostname: "node1",
		Machine:  "x86_64",
		BootTime: time.Now().Add(-90 * time.Minute),
	}})
	path := writeConfig(t, config.DefaultConfig())

	out, err := execute(t, "--config", path, "info")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Hostname:    node1", "Processor:   unknown", "Uptime:      1h 30m"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--config", path, "info", "--json")
	if err != nil {
		t.Fatalf("info --json: %v", err)
	}
	var info hostmetrics.HostInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Hostname != "node1" {
		t.Errorf("hostname = %q", info.Hostname)
	}
}

func TestInfoCommand_Empty(t *testing.T) {
	useStaticSource(t, staticSource{})
	path := writeConfig(t, config.DefaultConfig())

	if _, err := execute(t, "--config", path, "info"); err == nil {
		t.Fatal("expected empty host info to fail")
	}
}

func TestChartCommand(t *testing.T) {
	useStaticSource(t, staticSource{})
	path := writeConfig(t, config.DefaultConfig())
	out := filepath.Join(t.TempDir(), "cpu.png")

	stdout, err := execute(t, "--config", path, "chart", "--out", out, "--samples", "5", "--width", "200", "--height", "60")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if !strings.Contains(stdout, "wrote 5 samples") {
		t.Errorf("output = %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("chart is not a PNG")
	}
}

func TestChartCommand_SamplesRange(t *testing.T) {
	useStaticSource(t, staticSource{})
	path := writeConfig(t, config.DefaultConfig())

	for _, n := range []string{"1", "61"} {
		if _, err := execute(t, "--config", path, "chart", "--samples", n, "--out", filepath.Join(t.TempDir(), "x.png")); err == nil {
			t.Errorf("samples=%s: expected error", n)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("expected second init without --force to fail")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("written config invalid: %v", err)
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "127.0.0.1:9273") {
		t.Errorf("config show:\n%s", out)
	}
}

func TestKeysCommand(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		format  string
		want    string
		wantErr bool
	}{
		{name: "table", format: "table", want: "GLOBAL:"},
		{name: "table one mode", mode: "processes", format: "table", want: "PROCESSES:"},
		{name: "json", format: "json", want: `"mode": "global"`},
		{name: "json one mode", mode: "settings", format: "json", want: `"mode": "settings"`},
		{name: "unknown mode", mode: "vim", format: "table", wantErr: true},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runKeysCommand(&buf, tt.mode, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("runKeysCommand: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}

	var buf bytes.Buffer
	if err := runKeysCommand(&buf, "processes", "table"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "GLOBAL:") {
		t.Error("mode filter should hide global bindings")
	}
}
