//go:build !unix

package hostmetrics

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

// signalTerminate asks gopsutil to terminate the process on platforms
// without POSIX signals.
func signalTerminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return err
	}
	return p.TerminateWithContext(ctx)
}
