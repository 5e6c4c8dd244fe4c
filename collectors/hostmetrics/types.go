// Package hostmetrics wraps operating system queries for CPU, memory, disk,
// network and process information behind the Source interface. The default
// implementation is backed by gopsutil; tests swap in fakes or the gomock
// mock in the mocks subpackage.
package hostmetrics

import "time"

// Metric names used in warnings, error details and SystemState.Unavailable.
const (
	MetricCPU       = "cpu"
	MetricMemory    = "memory"
	MetricDisk      = "disk"
	MetricNetwork   = "network"
	MetricProcesses = "processes"
)

// ProcessRecord is one process as seen at a single sampling instant.
// PID is only unique among processes alive at that instant; the OS reuses
// pids, so records must not be matched across snapshots.
type ProcessRecord struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
}

// NetCounters holds cumulative network byte counters summed across all
// interfaces.
type NetCounters struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// HostInfo is the static description of the machine, queried once at startup.
type HostInfo struct {
	// OS is the operating system family (e.g. "linux", "darwin").
	OS string `json:"os"`

	// Hostname is the node name.
	Hostname string `json:"hostname"`

	// Release is the kernel release.
	Release string `json:"release"`

	// Version is the platform name and version (e.g. "ubuntu 24.04").
	Version string `json:"version"`

	// Machine is the hardware architecture (e.g. "x86_64").
	Machine string `json:"machine"`

	// Processor is the CPU model name.
	Processor string `json:"processor"`

	// IP is the primary non-loopback IPv4 address, if one was found.
	IP string `json:"ip"`

	// BootTime is when the host last booted.
	BootTime time.Time `json:"boot_time"`
}

// IsEmpty reports whether no host facts were collected.
func (h HostInfo) IsEmpty() bool {
	return h.OS == "" && h.Hostname == "" && h.Release == "" && h.Machine == ""
}
