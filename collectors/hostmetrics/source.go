package hostmetrics

import (
	"context"
	"io"
	"log/slog"
	"time"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

//go:generate mockgen -destination=mocks/source.go -package=mocks gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics Source

// Source is the uniform, mockable view of the operating system used by the
// sampler and the termination gateway.
type Source interface {
	// SampleCPU returns system-wide CPU utilization since the previous call.
	// It never fails: OS errors are logged and reported as 0.
	SampleCPU(ctx context.Context) float64

	// SampleMemory returns used virtual memory as a percentage.
	SampleMemory(ctx context.Context) (float64, error)

	// SampleDisk returns used space of the filesystem holding path.
	SampleDisk(ctx context.Context, path string) (float64, error)

	// SampleNetwork returns cumulative bytes sent and received.
	SampleNetwork(ctx context.Context) (NetCounters, error)

	// ListProcesses enumerates visible processes in unspecified order.
	// Processes that exit mid-read or deny access are skipped. Any other
	// per-process failure is returned as a combined error next to the
	// records that were read successfully.
	ListProcesses(ctx context.Context) ([]ProcessRecord, error)

	// Terminate asks the OS to terminate pid and returns without waiting
	// for the process to be reaped. Failures are *TerminationError.
	Terminate(ctx context.Context, pid int32) error

	// HostInfo queries static host facts.
	HostInfo(ctx context.Context) (HostInfo, error)
}

// Config configures a GopsutilSource.
type Config struct {
	// HandleTTL is how long a per-process handle survives without being
	// seen. It should exceed the sampling interval so CPU deltas carry over
	// between ticks. Zero selects DefaultHandleTTL.
	HandleTTL time.Duration

	// Logger for adapter warnings. Nil is safe (a discard logger is used).
	Logger *slog.Logger
}

// DefaultHandleTTL keeps process handles for a few default sampling intervals.
const DefaultHandleTTL = 10 * time.Second

// GopsutilSource implements Source on top of gopsutil.
type GopsutilSource struct {
	logger  *slog.Logger
	handles *handleCache

	// Overridable OS queries for testing.
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	cpuInfo       func(ctx context.Context) ([]cpu.InfoStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage     func(ctx context.Context, path string) (*disk.UsageStat, error)
	ioCounters    func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)
	interfaces    func(ctx context.Context) (net.InterfaceStatList, error)
	hostInfo      func(ctx context.Context) (*host.InfoStat, error)
	lookupIP      func(ctx context.Context, hostname string) ([]string, error)
	pids          func(ctx context.Context) ([]int32, error)
	kill          func(ctx context.Context, pid int32) error
}

// NewGopsutilSource creates a GopsutilSource.
func NewGopsutilSource(cfg Config) *GopsutilSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ttl := cfg.HandleTTL
	if ttl <= 0 {
		ttl = DefaultHandleTTL
	}

	return &GopsutilSource{
		logger: logger,
		handles: newHandleCache(ttl, func(ctx context.Context, pid int32) (processHandle, error) {
			p, err := process.NewProcessWithContext(ctx, pid)
			if err != nil {
				return nil, err
			}
			return p, nil
		}),
		cpuPercent:    cpu.PercentWithContext,
		cpuInfo:       cpu.InfoWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		diskUsage:     disk.UsageWithContext,
		ioCounters:    net.IOCountersWithContext,
		interfaces:    net.InterfacesWithContext,
		hostInfo:      host.InfoWithContext,
		lookupIP:      lookupHostIPs,
		pids:          process.PidsWithContext,
		kill:          signalTerminate,
	}
}

// SampleCPU returns CPU utilization since the previous call. gopsutil keeps
// the baseline internally, so the first call measures from package init.
func (s *GopsutilSource) SampleCPU(ctx context.Context) float64 {
	pcts, err := s.cpuPercent(ctx, 0, false)
	if err != nil {
		s.logger.Warn("hostmetrics: cpu sample failed", "error", err)
		return 0
	}
	if len(pcts) == 0 {
		s.logger.Warn("hostmetrics: cpu sample returned no values")
		return 0
	}
	return clampPercent(pcts[0])
}

// SampleMemory returns used virtual memory as a percentage.
func (s *GopsutilSource) SampleMemory(ctx context.Context) (float64, error) {
	vm, err := s.virtualMemory(ctx)
	if err != nil {
		return 0, unavailable(MetricMemory, err)
	}
	if vm == nil {
		return 0, unavailable(MetricMemory, errors.New("no memory statistics"))
	}
	return clampPercent(vm.UsedPercent), nil
}

// SampleDisk returns the used percentage of the filesystem holding path.
func (s *GopsutilSource) SampleDisk(ctx context.Context, path string) (float64, error) {
	usage, err := s.diskUsage(ctx, path)
	if err != nil {
		return 0, unavailable(MetricDisk, errors.WithDetails(err, "path", path))
	}
	if usage == nil {
		return 0, unavailable(MetricDisk, errors.NewWithDetails("no usage statistics", "path", path))
	}
	return clampPercent(usage.UsedPercent), nil
}

// SampleNetwork returns byte counters aggregated over all interfaces.
func (s *GopsutilSource) SampleNetwork(ctx context.Context) (NetCounters, error) {
	counters, err := s.ioCounters(ctx, false)
	if err != nil {
		return NetCounters{}, unavailable(MetricNetwork, err)
	}
	if len(counters) == 0 {
		return NetCounters{}, unavailable(MetricNetwork, errors.New("no interface counters"))
	}
	return NetCounters{
		BytesSent: counters[0].BytesSent,
		BytesRecv: counters[0].BytesRecv,
	}, nil
}

// Terminate sends a termination request for pid. Non-positive pids address
// process groups on unix and are rejected without signalling anything.
func (s *GopsutilSource) Terminate(ctx context.Context, pid int32) error {
	if pid <= 0 {
		return &TerminationError{
			PID:  pid,
			Kind: TerminationNotFound,
			Err:  errors.NewWithDetails("invalid pid", "pid", pid),
		}
	}
	if err := s.kill(ctx, pid); err != nil {
		return NewTerminationError(pid, err)
	}
	return nil
}

// clampPercent bounds v to [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Compile-time interface compliance check.
var _ Source = (*GopsutilSource)(nil)
