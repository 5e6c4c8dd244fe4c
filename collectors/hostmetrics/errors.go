package hostmetrics

import (
	"context"
	"fmt"
	"io/fs"
	"syscall"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	// ErrMetricUnavailable marks a point-in-time query the OS could not
	// answer. Callers substitute a previous value and keep going.
	ErrMetricUnavailable = errors.Sentinel("metric unavailable")

	// ErrProcessNotFound matches a TerminationError of kind TerminationNotFound.
	ErrProcessNotFound = errors.Sentinel("process not found")

	// ErrPermissionDenied matches a TerminationError of kind
	// TerminationPermissionDenied.
	ErrPermissionDenied = errors.Sentinel("permission denied")
)

// MetricError reports which metric failed and why.
type MetricError struct {
	Metric string
	Err    error
}

func (e *MetricError) Error() string {
	return fmt.Sprintf("hostmetrics: %s unavailable: %v", e.Metric, e.Err)
}

func (e *MetricError) Unwrap() error { return e.Err }

// Is makes every MetricError match ErrMetricUnavailable.
func (e *MetricError) Is(target error) bool {
	return target == ErrMetricUnavailable
}

// unavailable wraps err as a MetricError carrying the metric name as a detail.
func unavailable(metric string, err error) error {
	return errors.WithDetails(&MetricError{Metric: metric, Err: err}, "metric", metric)
}

// TerminationKind classifies why a termination request failed.
type TerminationKind int

const (
	// TerminationOther covers any failure that is neither of the below.
	TerminationOther TerminationKind = iota
	// TerminationNotFound means the pid does not name a live process.
	TerminationNotFound
	// TerminationPermissionDenied means the caller lacks the privilege to
	// signal the process.
	TerminationPermissionDenied
)

// String returns the human-readable kind name.
func (k TerminationKind) String() string {
	switch k {
	case TerminationNotFound:
		return "not_found"
	case TerminationPermissionDenied:
		return "permission_denied"
	case TerminationOther:
		return "other"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// TerminationError is returned by Source.Terminate when the OS rejects a
// termination request.
type TerminationError struct {
	PID  int32
	Kind TerminationKind
	Err  error
}

func (e *TerminationError) Error() string {
	switch e.Kind {
	case TerminationNotFound:
		return fmt.Sprintf("terminate pid %d: no such process", e.PID)
	case TerminationPermissionDenied:
		return fmt.Sprintf("terminate pid %d: access denied", e.PID)
	default:
		return fmt.Sprintf("terminate pid %d: %v", e.PID, e.Err)
	}
}

func (e *TerminationError) Unwrap() error { return e.Err }

// Is lets callers test the kind with errors.Is(err, ErrProcessNotFound) and
// errors.Is(err, ErrPermissionDenied).
func (e *TerminationError) Is(target error) bool {
	switch target {
	case ErrProcessNotFound:
		return e.Kind == TerminationNotFound
	case ErrPermissionDenied:
		return e.Kind == TerminationPermissionDenied
	}
	return false
}

// NewTerminationError classifies an OS error from a termination attempt.
func NewTerminationError(pid int32, err error) *TerminationError {
	kind := TerminationOther
	switch {
	case isProcessGone(err):
		kind = TerminationNotFound
	case isPermissionDenied(err):
		kind = TerminationPermissionDenied
	}
	return &TerminationError{PID: pid, Kind: kind, Err: err}
}

// isProcessGone reports whether err means the process exited (or never
// existed) between enumeration and the read.
func isProcessGone(err error) bool {
	return errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ESRCH)
}

// isPermissionDenied reports whether err means the caller may not read or
// signal the process.
func isPermissionDenied(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// isExpectedProcessError is the narrow set of per-process failures that are
// skipped silently during enumeration.
func isExpectedProcessError(err error) bool {
	return isProcessGone(err) || isPermissionDenied(err)
}

// isContextError reports whether err came from a cancelled or expired context.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
