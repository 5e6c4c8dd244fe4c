package monitor

import (
	"context"

	"emperror.dev/errors"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
)

// RequestTermination asks the OS to terminate pid. The pid is not checked
// against the current snapshot and the request is not retried. The
// published state and history are left untouched; the next tick reflects
// whatever the OS did.
//
// Any failure is returned as *hostmetrics.TerminationError.
func (m *Monitor) RequestTermination(ctx context.Context, pid int32) error {
	err := m.src.Terminate(ctx, pid)
	if err == nil {
		m.logger.Info("monitor: termination requested", "pid", pid)
		return nil
	}

	var termErr *hostmetrics.TerminationError
	if !errors.As(err, &termErr) {
		termErr = &hostmetrics.TerminationError{
			PID:  pid,
			Kind: hostmetrics.TerminationOther,
			Err:  err,
		}
	}

	m.logger.Warn("monitor: termination failed",
		"pid", pid,
		"kind", termErr.Kind.String(),
		"error", termErr.Err,
	)
	return termErr
}
