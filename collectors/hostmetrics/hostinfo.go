package hostmetrics

import (
	"context"
	stdnet "net"
	"runtime"
	"strings"
	"time"

	"emperror.dev/errors"
)

// HostInfo queries static host facts. Fields that cannot be determined are
// left empty; their errors are combined into the returned error.
func (s *GopsutilSource) HostInfo(ctx context.Context) (HostInfo, error) {
	var (
		info HostInfo
		errs []error
	)

	hi, err := s.hostInfo(ctx)
	switch {
	case err != nil:
		errs = append(errs, errors.WrapIf(err, "host info"))
		info.OS = runtime.GOOS
		info.Machine = runtime.GOARCH
	case hi != nil:
		info.OS = hi.OS
		info.Hostname = hi.Hostname
		info.Release = hi.KernelVersion
		info.Version = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
		info.Machine = hi.KernelArch
		if hi.BootTime > 0 {
			info.BootTime = time.Unix(int64(hi.BootTime), 0)
		}
	}

	cpus, err := s.cpuInfo(ctx)
	switch {
	case err != nil:
		errs = append(errs, errors.WrapIf(err, "cpu info"))
	case len(cpus) > 0:
		info.Processor = cpus[0].ModelName
	}

	ip, err := s.primaryIP(ctx, info.Hostname)
	if err != nil {
		errs = append(errs, err)
	}
	info.IP = ip

	return info, errors.Combine(errs...)
}

// primaryIP resolves the hostname first and falls back to the first
// non-loopback IPv4 interface address.
func (s *GopsutilSource) primaryIP(ctx context.Context, hostname string) (string, error) {
	if hostname != "" {
		if addrs, err := s.lookupIP(ctx, hostname); err == nil {
			if ip := firstRoutableIPv4(addrs); ip != "" {
				return ip, nil
			}
		}
	}

	ifaces, err := s.interfaces(ctx)
	if err != nil {
		return "", errors.WrapIf(err, "list interfaces")
	}
	var addrs []string
	for _, iface := range ifaces {
		for _, a := range iface.Addrs {
			addrs = append(addrs, a.Addr)
		}
	}
	if ip := firstRoutableIPv4(addrs); ip != "" {
		return ip, nil
	}
	return "", errors.New("no non-loopback IPv4 address found")
}

// firstRoutableIPv4 returns the first non-loopback IPv4 address among addrs.
// Entries may be plain addresses or CIDR notation.
func firstRoutableIPv4(addrs []string) string {
	for _, a := range addrs {
		ip := stdnet.ParseIP(a)
		if ip == nil {
			parsed, _, err := stdnet.ParseCIDR(a)
			if err != nil {
				continue
			}
			ip = parsed
		}
		if v4 := ip.To4(); v4 != nil && !v4.IsLoopback() && !v4.IsUnspecified() {
			return v4.String()
		}
	}
	return ""
}

func lookupHostIPs(ctx context.Context, hostname string) ([]string, error) {
	return stdnet.DefaultResolver.LookupHost(ctx, hostname)
}
