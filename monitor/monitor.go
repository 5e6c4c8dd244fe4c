// Package monitor is the sampling-and-snapshot core of hostpulse. A single
// background loop polls a hostmetrics.Source at a fixed interval, keeps a
// rolling CPU history, builds a process snapshot, and publishes the result
// as one immutable SystemState that any number of readers can load without
// blocking the loop. Termination requests from presentation layers go
// through RequestTermination.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"emperror.dev/errors"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
)

const (
	// DefaultInterval is the pause between the end of one tick and the start
	// of the next.
	DefaultInterval = 2 * time.Second

	// DefaultDiskPath is the filesystem whose usage is reported.
	DefaultDiskPath = "/"
)

// ErrAlreadyRunning is returned when a second sampler is started on the
// same Monitor.
const ErrAlreadyRunning = errors.Sentinel("monitor: sampler already running")

// Config configures a Monitor.
type Config struct {
	// Interval is the fixed sleep between ticks. Zero selects DefaultInterval.
	Interval time.Duration

	// DiskPath is the path passed to Source.SampleDisk. Empty selects
	// DefaultDiskPath.
	DiskPath string

	// QueryTimeout bounds the OS queries of one tick. Zero means no bound.
	QueryTimeout time.Duration

	// OnTick, if set, is called on the sampler goroutine after each publish.
	OnTick func(SystemState)

	// Logger for sampler warnings. Nil is safe (a discard logger is used).
	Logger *slog.Logger
}

// DefaultConfig returns the standard sampler settings.
func DefaultConfig() Config {
	return Config{
		Interval: DefaultInterval,
		DiskPath: DefaultDiskPath,
	}
}

// Monitor owns the history buffer, the published state and the metric
// source. Create one per process with New.
type Monitor struct {
	src     hostmetrics.Source
	cfg     Config
	logger  *slog.Logger
	history *History
	builder *SnapshotBuilder

	current atomic.Pointer[SystemState]
	state   atomic.Int32

	// warnings is only touched by the goroutine running ticks.
	warnings *warnLimiter

	hostOnce sync.Once
	host     hostmetrics.HostInfo

	// after is overridable for testing.
	after func(time.Duration) <-chan time.Time
	now   func() time.Time
}

// New creates an idle Monitor reading from src.
func New(src hostmetrics.Source, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.DiskPath == "" {
		cfg.DiskPath = DefaultDiskPath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Monitor{
		src:      src,
		cfg:      cfg,
		logger:   logger,
		history:  NewHistory(HistoryCapacity),
		builder:  NewSnapshotBuilder(src),
		warnings: newWarnLimiter(logger),
		after:    time.After,
		now:      time.Now,
	}
}

// Interval returns the configured tick interval.
func (m *Monitor) Interval() time.Duration {
	return m.cfg.Interval
}

// State returns the sampler lifecycle state.
func (m *Monitor) State() RunState {
	return RunState(m.state.Load())
}

// Start launches the sampling loop on a background goroutine that runs for
// the rest of the process lifetime. It has no effect while a loop or a
// synchronous Tick is active, so calling it more than once is safe.
func (m *Monitor) Start() {
	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return
	}
	m.logger.Info("monitor: sampler started", "interval", m.cfg.Interval, "disk_path", m.cfg.DiskPath)
	go m.loop(context.Background())
}

// Run runs the sampling loop on the calling goroutine until ctx is
// cancelled. It returns ErrAlreadyRunning if a loop is already active.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyRunning
	}
	defer m.state.Store(int32(StateIdle))

	m.logger.Info("monitor: sampler running", "interval", m.cfg.Interval, "disk_path", m.cfg.DiskPath)
	m.loop(ctx)
	m.logger.Info("monitor: sampler stopped", "ticks", m.Current().Tick)
	return nil
}

// Tick performs one sample-and-publish cycle synchronously. It is meant for
// one-shot commands and returns ErrAlreadyRunning while a loop is active.
func (m *Monitor) Tick(ctx context.Context) (SystemState, error) {
	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return SystemState{}, ErrAlreadyRunning
	}
	defer m.state.Store(int32(StateIdle))
	return m.tick(ctx), nil
}

// Current returns the most recently published state, or the zero state
// before the first tick completes. It never blocks.
func (m *Monitor) Current() SystemState {
	if s := m.current.Load(); s != nil {
		return *s
	}
	return SystemState{}
}

// History returns the CPU history, oldest first.
func (m *Monitor) History() []float64 {
	return m.history.Values()
}

// HostInfo returns the static host description. The OS is queried on the
// first call only. The result is cached for every later caller, so the
// query ignores cancellation of ctx.
func (m *Monitor) HostInfo(ctx context.Context) hostmetrics.HostInfo {
	m.hostOnce.Do(func() {
		info, err := m.src.HostInfo(context.WithoutCancel(ctx))
		if err != nil {
			m.logger.Warn("monitor: host info incomplete", "error", err)
		}
		m.host = info
	})
	return m.host
}

// loop ticks, then sleeps the fixed interval, until ctx is done.
func (m *Monitor) loop(ctx context.Context) {
	for {
		m.safeTick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-m.after(m.cfg.Interval):
		}
	}
}

// safeTick runs one tick and keeps the loop alive if the source panics.
func (m *Monitor) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("monitor: tick panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	m.tick(ctx)
}

// tick samples every metric, updates history and snapshot, and publishes a
// new SystemState. A failing metric keeps its previous value.
func (m *Monitor) tick(ctx context.Context) SystemState {
	if m.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.QueryTimeout)
		defer cancel()
	}

	prev := m.Current()
	next := SystemState{
		Tick:      prev.Tick + 1,
		SampledAt: m.now(),
	}

	next.CPUPercent = m.src.SampleCPU(ctx)

	if v, err := m.src.SampleMemory(ctx); err != nil {
		next.RAMPercent = prev.RAMPercent
		next.Unavailable = append(next.Unavailable, hostmetrics.MetricMemory)
		m.warnings.warn(hostmetrics.MetricMemory, err)
	} else {
		next.RAMPercent = v
		m.warnings.clear(hostmetrics.MetricMemory)
	}

	if v, err := m.src.SampleDisk(ctx, m.cfg.DiskPath); err != nil {
		next.DiskPercent = prev.DiskPercent
		next.Unavailable = append(next.Unavailable, hostmetrics.MetricDisk)
		m.warnings.warn(hostmetrics.MetricDisk, err)
	} else {
		next.DiskPercent = v
		m.warnings.clear(hostmetrics.MetricDisk)
	}

	if c, err := m.src.SampleNetwork(ctx); err != nil {
		next.NetSentBytes = prev.NetSentBytes
		next.NetRecvBytes = prev.NetRecvBytes
		next.Unavailable = append(next.Unavailable, hostmetrics.MetricNetwork)
		m.warnings.warn(hostmetrics.MetricNetwork, err)
	} else {
		next.NetSentBytes = c.BytesSent
		next.NetRecvBytes = c.BytesRecv
		m.warnings.clear(hostmetrics.MetricNetwork)
	}

	m.history.Push(next.CPUPercent)
	next.History = m.history.Values()

	snap, err := m.builder.Build(ctx)
	switch {
	case err == nil:
		next.Processes = snap
		m.warnings.clear(hostmetrics.MetricProcesses)
	case errors.Is(err, hostmetrics.ErrMetricUnavailable):
		next.Processes = prev.Processes
		next.Unavailable = append(next.Unavailable, hostmetrics.MetricProcesses)
		m.warnings.warn(hostmetrics.MetricProcesses, err)
	default:
		next.Processes = snap
		m.warnings.warn(hostmetrics.MetricProcesses, err)
	}

	m.current.Store(&next)

	m.logger.Debug("monitor: tick published",
		"tick", next.Tick,
		"cpu", next.CPUPercent,
		"ram", next.RAMPercent,
		"disk", next.DiskPercent,
		"processes", len(next.Processes),
		"unavailable", next.Unavailable,
	)

	if m.cfg.OnTick != nil {
		m.cfg.OnTick(next)
	}
	return next
}
