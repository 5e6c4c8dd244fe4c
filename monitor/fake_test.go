package monitor

import (
	"context"
	"errors"
	"sync/atomic"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
)

// fakeSource is a scriptable hostmetrics.Source. Nil funcs return zero
// values without error.
type fakeSource struct {
	cpu       func() float64
	memory    func() (float64, error)
	disk      func(path string) (float64, error)
	network   func() (hostmetrics.NetCounters, error)
	processes func() ([]hostmetrics.ProcessRecord, error)
	terminate func(pid int32) error
	hostInfo  func(ctx context.Context) (hostmetrics.HostInfo, error)

	hostCalls atomic.Int32
}

func (f *fakeSource) SampleCPU(context.Context) float64 {
	if f.cpu == nil {
		return 0
	}
	return f.cpu()
}

func (f *fakeSource) SampleMemory(context.Context) (float64, error) {
	if f.memory == nil {
		return 0, nil
	}
	return f.memory()
}

func (f *fakeSource) SampleDisk(_ context.Context, path string) (float64, error) {
	if f.disk == nil {
		return 0, nil
	}
	return f.disk(path)
}

func (f *fakeSource) SampleNetwork(context.Context) (hostmetrics.NetCounters, error) {
	if f.network == nil {
		return hostmetrics.NetCounters{}, nil
	}
	return f.network()
}

func (f *fakeSource) ListProcesses(context.Context) ([]hostmetrics.ProcessRecord, error) {
	if f.processes == nil {
		return nil, nil
	}
	return f.processes()
}

func (f *fakeSource) Terminate(_ context.Context, pid int32) error {
	if f.terminate == nil {
		return nil
	}
	return f.terminate(pid)
}

func (f *fakeSource) HostInfo(ctx context.Context) (hostmetrics.HostInfo, error) {
	f.hostCalls.Add(1)
	if f.hostInfo == nil {
		return hostmetrics.HostInfo{}, nil
	}
	return f.hostInfo(ctx)
}

// metricErr builds the error the gopsutil adapter returns for a failed query.
func metricErr(metric string) error {
	return &hostmetrics.MetricError{Metric: metric, Err: errors.New("query failed")}
}
