package monitor

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strconv"
	"strings"

	"emperror.dev/errors"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
)

// ProcessSnapshot is every process visible at one sampling instant, ordered
// by PID. It is never modified after it is built.
type ProcessSnapshot []hostmetrics.ProcessRecord

// Find returns the record for pid, if present.
func (s ProcessSnapshot) Find(pid int32) (hostmetrics.ProcessRecord, bool) {
	i, ok := slices.BinarySearchFunc(s, pid, func(r hostmetrics.ProcessRecord, pid int32) int {
		return cmp.Compare(r.PID, pid)
	})
	if !ok {
		return hostmetrics.ProcessRecord{}, false
	}
	return s[i], true
}

// SnapshotBuilder turns the adapter's process list into a ProcessSnapshot.
type SnapshotBuilder struct {
	src hostmetrics.Source
}

// NewSnapshotBuilder creates a builder reading from src.
func NewSnapshotBuilder(src hostmetrics.Source) *SnapshotBuilder {
	return &SnapshotBuilder{src: src}
}

// Build lists processes, rounds memory percent to two decimals, leaves CPU
// percent as reported, and orders the result by PID. When the adapter
// reports per-process failures alongside records, the snapshot is still
// returned together with that error. ErrMetricUnavailable returns no
// snapshot.
func (b *SnapshotBuilder) Build(ctx context.Context) (ProcessSnapshot, error) {
	records, err := b.src.ListProcesses(ctx)
	if err != nil && errors.Is(err, hostmetrics.ErrMetricUnavailable) {
		return nil, err
	}

	snap := make(ProcessSnapshot, len(records))
	for i, r := range records {
		r.MemPercent = roundPercent(r.MemPercent)
		snap[i] = r
	}
	slices.SortFunc(snap, func(a, b hostmetrics.ProcessRecord) int {
		return cmp.Compare(a.PID, b.PID)
	})

	return snap, err
}

// roundPercent rounds v to two decimals, half away from zero, using the
// shortest decimal form of v. Rounding the binary value directly would turn
// 2.345 (stored as 2.34499...) into 2.34.
func roundPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) <= 2 {
		return v
	}

	n, err := strconv.ParseInt(intPart+frac[:2], 10, 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	if frac[2] >= '5' {
		n++
	}

	r := float64(n) / 100
	if neg {
		r = -r
	}
	return r
}
