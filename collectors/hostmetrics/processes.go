package hostmetrics

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/jellydator/ttlcache/v3"
)

// processHandle is the subset of *process.Process read per tick.
type processHandle interface {
	NameWithContext(ctx context.Context) (string, error)
	PercentWithContext(ctx context.Context, interval time.Duration) (float64, error)
	MemoryPercentWithContext(ctx context.Context) (float32, error)
	CreateTimeWithContext(ctx context.Context) (int64, error)
}

// cachedHandle pairs a handle with the create time of the process it was
// opened for, so a reused pid is never read through a stale handle.
type cachedHandle struct {
	handle  processHandle
	created int64
}

// handleCache keeps process handles alive across ticks. gopsutil computes a
// process's CPU percent as the delta since the previous call on the same
// handle, so dropping handles every tick would report 0 for everything.
type handleCache struct {
	cache *ttlcache.Cache[int32, *cachedHandle]
	open  func(ctx context.Context, pid int32) (processHandle, error)
}

func newHandleCache(ttl time.Duration, open func(ctx context.Context, pid int32) (processHandle, error)) *handleCache {
	return &handleCache{
		cache: ttlcache.New[int32, *cachedHandle](
			ttlcache.WithTTL[int32, *cachedHandle](ttl),
		),
		open: open,
	}
}

// get returns the handle for pid, reusing the cached one when it still refers
// to the same process instance.
func (c *handleCache) get(ctx context.Context, pid int32) (processHandle, error) {
	fresh, err := c.open(ctx, pid)
	if err != nil {
		return nil, err
	}
	created, err := fresh.CreateTimeWithContext(ctx)
	if err != nil {
		return nil, err
	}

	if item := c.cache.Get(pid); item != nil {
		if cached := item.Value(); cached != nil && cached.created == created {
			return cached.handle, nil
		}
	}

	c.cache.Set(pid, &cachedHandle{handle: fresh, created: created}, ttlcache.DefaultTTL)
	return fresh, nil
}

// sweep drops handles of processes that have not been seen within the TTL.
func (c *handleCache) sweep() {
	c.cache.DeleteExpired()
}

// size returns the number of cached handles.
func (c *handleCache) size() int {
	return c.cache.Len()
}

// ListProcesses enumerates all visible processes. A process that exits
// between enumeration and the field reads, or whose fields are not readable
// at the current privilege level, is left out without error.
func (s *GopsutilSource) ListProcesses(ctx context.Context) ([]ProcessRecord, error) {
	pids, err := s.pids(ctx)
	if err != nil {
		return nil, unavailable(MetricProcesses, err)
	}

	records := make([]ProcessRecord, 0, len(pids))
	var errs []error
	skipped := 0

	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, unavailable(MetricProcesses, err)
		}

		rec, err := s.readProcess(ctx, pid)
		if err != nil {
			if isContextError(err) {
				return nil, unavailable(MetricProcesses, err)
			}
			if isExpectedProcessError(err) {
				skipped++
				continue
			}
			errs = append(errs, errors.WithDetails(err, "pid", pid))
			continue
		}
		records = append(records, rec)
	}

	s.handles.sweep()

	s.logger.Debug("hostmetrics: processes listed",
		"visible", len(records),
		"skipped", skipped,
		"failed", len(errs),
		"handles", s.handles.size(),
	)

	return records, errors.Combine(errs...)
}

// readProcess reads one process's name, CPU percent and memory percent.
func (s *GopsutilSource) readProcess(ctx context.Context, pid int32) (ProcessRecord, error) {
	h, err := s.handles.get(ctx, pid)
	if err != nil {
		return ProcessRecord{}, err
	}

	name, err := h.NameWithContext(ctx)
	if err != nil {
		return ProcessRecord{}, err
	}
	cpuPct, err := h.PercentWithContext(ctx, 0)
	if err != nil {
		return ProcessRecord{}, err
	}
	memPct, err := h.MemoryPercentWithContext(ctx)
	if err != nil {
		return ProcessRecord{}, err
	}

	if cpuPct < 0 {
		cpuPct = 0
	}

	return ProcessRecord{
		PID:        pid,
		Name:       name,
		CPUPercent: cpuPct,
		MemPercent: clampPercent(float64(memPct)),
	}, nil
}
