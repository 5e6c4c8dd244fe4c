package monitor

import (
	"slices"
	"time"
)

// SystemState is everything published by one tick. All fields describe the
// same sampling instant. Slices are shared between readers and must not be
// modified.
type SystemState struct {
	// Tick is the sequence number of the tick that produced this state.
	// Zero means no tick has completed yet.
	Tick uint64 `json:"tick"`

	// SampledAt is when the tick started.
	SampledAt time.Time `json:"sampled_at"`

	CPUPercent   float64 `json:"cpu_percent"`
	RAMPercent   float64 `json:"ram_percent"`
	DiskPercent  float64 `json:"disk_percent"`
	NetSentBytes uint64  `json:"net_sent_bytes"`
	NetRecvBytes uint64  `json:"net_recv_bytes"`

	// History is the CPU history, oldest first, including this tick's sample.
	History []float64 `json:"history"`

	// Processes is the process table captured during this tick.
	Processes ProcessSnapshot `json:"processes"`

	// Unavailable names metrics whose value was carried over from the
	// previous tick because the OS query failed.
	Unavailable []string `json:"unavailable,omitempty"`
}

// IsZero reports whether this is the empty state published before the first
// tick.
func (s SystemState) IsZero() bool {
	return s.Tick == 0
}

// IsUnavailable reports whether metric was substituted in this state.
func (s SystemState) IsUnavailable(metric string) bool {
	return slices.Contains(s.Unavailable, metric)
}

// RunState is the sampler lifecycle.
type RunState int32

const (
	// StateIdle is before the first tick.
	StateIdle RunState = iota
	// StateRunning is the steady-state sampling loop.
	StateRunning
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}
