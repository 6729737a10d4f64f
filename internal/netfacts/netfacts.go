// Package netfacts answers questions about local OS network state: bound
// addresses, the Windows logon server, and DNS resolvability. Nothing in
// here spawns a process; everything is sockets and environment.
package netfacts

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/probe"
)

// NotAvailable is the sentinel reported for facts the host cannot supply.
const NotAvailable = "N/A"

// Interface is one enumerated interface with its bound address strings,
// as reported by the OS (CIDR or bare IP form).
type Interface struct {
	Name  string
	Addrs []string
}

// Resolver answers local network fact queries. The enumeration and lookup
// functions are swappable so tests can feed fixtures instead of touching
// the host.
type Resolver struct {
	log        zerolog.Logger
	interfaces func() ([]Interface, error)
	lookupHost func(ctx context.Context, host string) ([]string, error)
	goos       string
	getenv     func(string) string
}

func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{
		log:        log,
		interfaces: systemInterfaces,
		lookupHost: net.DefaultResolver.LookupHost,
		goos:       runtime.GOOS,
		getenv:     os.Getenv,
	}
}

func systemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		entry := Interface{Name: iface.Name}
		for _, addr := range addrs {
			entry.Addrs = append(entry.Addrs, addr.String())
		}
		out = append(out, entry)
	}
	return out, nil
}

// LocalIPAndInterface returns the first non-loopback IPv4 address and the
// interface carrying it. Enumeration order is whatever the OS reports, so
// a multi-homed host may see either of its addresses win; that is accepted
// behavior, not a defect. Returns ("N/A", "N/A") when no candidate exists.
func (r *Resolver) LocalIPAndInterface() (string, string) {
	ifaces, err := r.interfaces()
	if err != nil {
		r.log.Error().Err(err).Msg("interface enumeration failed")
		return NotAvailable, NotAvailable
	}

	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			ip := parseAddr(addr)
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			r.log.Info().Str("ip", ip.String()).Str("interface", iface.Name).Msg("found local address")
			return ip.String(), iface.Name
		}
	}

	r.log.Warn().Msg("no non-loopback IPv4 address found")
	return NotAvailable, NotAvailable
}

func parseAddr(s string) net.IP {
	if ip, _, err := net.ParseCIDR(s); err == nil {
		return ip
	}
	return net.ParseIP(s)
}

// LogonServer reads the Windows logon server from the environment. No
// subprocess: the variable is set by the OS at logon. Everywhere else the
// concept does not exist and the sentinel is returned.
func (r *Resolver) LogonServer() string {
	if r.goos != "windows" {
		return NotAvailable
	}
	if v := r.getenv("LOGONSERVER"); v != "" {
		r.log.Info().Str("logon_server", v).Msg("logon server")
		return v
	}
	return NotAvailable
}

// ResolveDNS performs one forward lookup bounded by its own deadline. The
// deadline lives in the per-call context, so concurrent or subsequent
// lookups are unaffected no matter how this one ends.
func (r *Resolver) ResolveDNS(ctx context.Context, hostname string, timeout time.Duration) probe.Outcome {
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.log.Debug().Str("host", hostname).Msg("resolving")
	addrs, err := r.lookupHost(lookupCtx, hostname)

	switch {
	case err == nil && len(addrs) > 0:
		r.log.Info().Str("host", hostname).Str("ip", addrs[0]).Msg("resolved")
		return probe.Success(addrs[0])

	case err == nil:
		msg := fmt.Sprintf("DNS resolution failed: no addresses for %s", hostname)
		r.log.Error().Str("host", hostname).Msg(msg)
		return probe.Failure(probe.KindResolutionError, msg)

	case isLookupTimeout(lookupCtx, err):
		msg := fmt.Sprintf("DNS timeout after %d seconds", int(timeout.Seconds()))
		r.log.Error().Str("host", hostname).Msg(msg)
		return probe.Failure(probe.KindTimeout, msg)

	default:
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			msg := fmt.Sprintf("DNS resolution failed: %v", err)
			r.log.Error().Str("host", hostname).Msg(msg)
			return probe.Failure(probe.KindResolutionError, msg)
		}
		msg := fmt.Sprintf("DNS error: %v", err)
		r.log.Error().Str("host", hostname).Msg(msg)
		return probe.Failure(probe.KindUnknown, msg)
	}
}

func isLookupTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsTimeout
}
