//go:build unix

package hostmetrics

import (
	"context"

	"golang.org/x/sys/unix"
)

// signalTerminate sends SIGTERM. unix.ESRCH and unix.EPERM classify as
// TerminationNotFound and TerminationPermissionDenied.
func signalTerminate(_ context.Context, pid int32) error {
	return unix.Kill(int(pid), unix.SIGTERM)
}
