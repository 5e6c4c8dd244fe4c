package monitor

import (
	"log/slog"
	"time"
)

// repeatWindow is how long an identical metric error stays suppressed.
const repeatWindow = time.Hour

// errTracker deduplicates repeated identical errors for one metric.
type errTracker struct {
	lastMsg    string
	lastTime   time.Time
	suppressed int64
}

// warnLimiter logs metric failures without flooding the log when the same
// failure repeats every tick. Not safe for concurrent use.
type warnLimiter struct {
	logger   *slog.Logger
	trackers map[string]*errTracker
	now      func() time.Time
}

func newWarnLimiter(logger *slog.Logger) *warnLimiter {
	return &warnLimiter{
		logger:   logger,
		trackers: make(map[string]*errTracker),
		now:      time.Now,
	}
}

// warn logs err for metric unless it repeats the previous message within
// repeatWindow. Every 100th repeat is logged with a count.
func (w *warnLimiter) warn(metric string, err error) {
	msg := err.Error()
	tracker := w.trackers[metric]
	if tracker == nil {
		tracker = &errTracker{}
		w.trackers[metric] = tracker
	}

	now := w.now()
	if msg == tracker.lastMsg && now.Sub(tracker.lastTime) < repeatWindow {
		tracker.suppressed++
		if tracker.suppressed%100 == 0 {
			w.logger.Warn("monitor: metric still unavailable",
				"metric", metric,
				"repeated", tracker.suppressed,
				"error", err,
			)
		}
		return
	}
	if tracker.suppressed > 0 {
		w.logger.Info("monitor: previous metric error repeated",
			"metric", metric,
			"repeated", tracker.suppressed,
		)
	}
	w.logger.Warn("monitor: metric unavailable, keeping last value",
		"metric", metric,
		"error", err,
	)
	tracker.lastMsg = msg
	tracker.lastTime = now
	tracker.suppressed = 0
}

// clear forgets the failure state of metric after a successful sample, so
// the next failure is logged immediately.
func (w *warnLimiter) clear(metric string) {
	tracker := w.trackers[metric]
	if tracker == nil {
		return
	}
	if tracker.suppressed > 0 || tracker.lastMsg != "" {
		w.logger.Info("monitor: metric recovered",
			"metric", metric,
			"repeated", tracker.suppressed,
		)
	}
	delete(w.trackers, metric)
}
