package monitor

import (
	"cmp"
	"slices"
	"strings"

	"emperror.dev/errors"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
)

// SortKey selects the ordering of a process listing.
type SortKey string

const (
	// SortByCPU orders by CPU percent, highest first.
	SortByCPU SortKey = "cpu"
	// SortByMem orders by memory percent, highest first.
	SortByMem SortKey = "mem"
	// SortByPID orders by pid, lowest first.
	SortByPID SortKey = "pid"
	// SortByName orders by name, case-insensitive.
	SortByName SortKey = "name"
)

// SortKeys lists every key in display cycling order.
var SortKeys = []SortKey{SortByCPU, SortByMem, SortByPID, SortByName}

// ParseSortKey parses a key name. The empty string selects SortByCPU.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByCPU, nil
	case SortByCPU, SortByMem, SortByPID, SortByName:
		return k, nil
	}
	return "", errors.NewWithDetails("unknown sort key", "key", s)
}

// Next returns the key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Label is the column heading for k.
func (k SortKey) Label() string {
	switch k {
	case SortByMem:
		return "MEM%"
	case SortByPID:
		return "PID"
	case SortByName:
		return "NAME"
	default:
		return "CPU%"
	}
}

// SortProcesses returns a copy of snap ordered by key, truncated to limit
// entries when limit is positive. Ties fall back to pid order. snap itself
// is never reordered since it may be shared through a published state.
func SortProcesses(snap ProcessSnapshot, key SortKey, limit int) ProcessSnapshot {
	out := slices.Clone(snap)

	slices.SortStableFunc(out, func(a, b hostmetrics.ProcessRecord) int {
		var c int
		switch key {
		case SortByMem:
			c = cmp.Compare(b.MemPercent, a.MemPercent)
		case SortByPID:
			c = cmp.Compare(a.PID, b.PID)
		case SortByName:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			c = cmp.Compare(b.CPUPercent, a.CPUPercent)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.PID, b.PID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
