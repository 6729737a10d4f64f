package netfacts

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/probe"
)

func fixtureResolver(ifaces []Interface) *Resolver {
	r := NewResolver(zerolog.Nop())
	r.interfaces = func() ([]Interface, error) { return ifaces, nil }
	return r
}

func TestLocalIPAndInterface(t *testing.T) {
	tests := []struct {
		name      string
		ifaces    []Interface
		wantIP    string
		wantIface string
	}{
		{
			name: "skips loopback",
			ifaces: []Interface{
				{Name: "lo", Addrs: []string{"127.0.0.1/8"}},
				{Name: "eth0", Addrs: []string{"10.0.0.5/24"}},
				{Name: "eth1", Addrs: []string{"10.0.0.6/24"}},
			},
			wantIP:    "10.0.0.5",
			wantIface: "eth0",
		},
		{
			name: "skips IPv6 before IPv4",
			ifaces: []Interface{
				{Name: "eth0", Addrs: []string{"fe80::1/64", "192.168.1.20/24"}},
			},
			wantIP:    "192.168.1.20",
			wantIface: "eth0",
		},
		{
			name: "bare addresses without mask",
			ifaces: []Interface{
				{Name: "wlan0", Addrs: []string{"172.16.4.9"}},
			},
			wantIP:    "172.16.4.9",
			wantIface: "wlan0",
		},
		{
			name: "loopback only",
			ifaces: []Interface{
				{Name: "lo", Addrs: []string{"127.0.0.1/8", "::1/128"}},
			},
			wantIP:    NotAvailable,
			wantIface: NotAvailable,
		},
		{
			name:      "no interfaces",
			ifaces:    nil,
			wantIP:    NotAvailable,
			wantIface: NotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, iface := fixtureResolver(tt.ifaces).LocalIPAndInterface()
			if ip != tt.wantIP || iface != tt.wantIface {
				t.Errorf("LocalIPAndInterface() = (%q, %q), want (%q, %q)", ip, iface, tt.wantIP, tt.wantIface)
			}
			if ip == "127.0.0.1" {
				t.Error("LocalIPAndInterface() returned a loopback address")
			}
		})
	}
}

func TestLocalIPAndInterfaceEnumerationError(t *testing.T) {
	r := NewResolver(zerolog.Nop())
	r.interfaces = func() ([]Interface, error) { return nil, errors.New("netlink down") }

	ip, iface := r.LocalIPAndInterface()
	if ip != NotAvailable || iface != NotAvailable {
		t.Errorf("LocalIPAndInterface() = (%q, %q), want sentinels", ip, iface)
	}
}

func TestLogonServer(t *testing.T) {
	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{"windows with value", "windows", map[string]string{"LOGONSERVER": `\\DC01`}, `\\DC01`},
		{"windows unset", "windows", nil, NotAvailable},
		{"linux", "linux", map[string]string{"LOGONSERVER": `\\DC01`}, NotAvailable},
		{"darwin", "darwin", nil, NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(zerolog.Nop())
			r.goos = tt.goos
			r.getenv = func(key string) string { return tt.env[key] }

			if got := r.LogonServer(); got != tt.want {
				t.Errorf("LogonServer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveDNSSuccess(t *testing.T) {
	r := NewResolver(zerolog.Nop())
	r.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		return []string{"142.250.64.78", "2607:f8b0::1"}, nil
	}

	out := r.ResolveDNS(context.Background(), "google.com", 5*time.Second)
	if !out.OK {
		t.Fatalf("ResolveDNS() failed: %s", out.Message)
	}
	if out.Payload != "142.250.64.78" {
		t.Errorf("Payload = %q, want first resolved address", out.Payload)
	}
}

func TestResolveDNSNotFound(t *testing.T) {
	r := NewResolver(zerolog.Nop())
	r.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}

	out := r.ResolveDNS(context.Background(), "no-such-host.invalid", 5*time.Second)
	if out.OK {
		t.Fatal("ResolveDNS() succeeded for an unresolvable name")
	}
	if out.Kind != probe.KindResolutionError {
		t.Errorf("Kind = %s, want %s", out.Kind, probe.KindResolutionError)
	}
	if want := "DNS resolution failed"; len(out.Message) < len(want) || out.Message[:len(want)] != want {
		t.Errorf("Message = %q, want %q prefix", out.Message, want)
	}
}

func TestResolveDNSTimeout(t *testing.T) {
	r := NewResolver(zerolog.Nop())
	r.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		<-ctx.Done()
		return nil, &net.DNSError{Err: "i/o timeout", Name: host, IsTimeout: true}
	}

	out := r.ResolveDNS(context.Background(), "slow.example.com", 50*time.Millisecond)
	if out.Kind != probe.KindTimeout {
		t.Fatalf("Kind = %s, want %s", out.Kind, probe.KindTimeout)
	}
}

func TestResolveDNSUnknownError(t *testing.T) {
	r := NewResolver(zerolog.Nop())
	r.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		return nil, errors.New("resolver exploded")
	}

	out := r.ResolveDNS(context.Background(), "example.com", 5*time.Second)
	if out.Kind != probe.KindUnknown {
		t.Errorf("Kind = %s, want %s", out.Kind, probe.KindUnknown)
	}
	if want := "DNS error: resolver exploded"; out.Message != want {
		t.Errorf("Message = %q, want %q", out.Message, want)
	}
}

// A failed lookup must not shrink the deadline of the next one: each call
// carries its own context.
func TestResolveDNSDeadlineDoesNotLeak(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	r.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		<-ctx.Done()
		return nil, &net.DNSError{Err: "i/o timeout", Name: host, IsTimeout: true}
	}
	if out := r.ResolveDNS(context.Background(), "first.example.com", 50*time.Millisecond); out.Kind != probe.KindTimeout {
		t.Fatalf("first lookup Kind = %s, want %s", out.Kind, probe.KindTimeout)
	}

	var remaining time.Duration
	r.lookupHost = func(ctx context.Context, host string) ([]string, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Fatal("second lookup has no deadline")
		}
		remaining = time.Until(deadline)
		return []string{"8.8.8.8"}, nil
	}

	timeout := 5 * time.Second
	if out := r.ResolveDNS(context.Background(), "8.8.8.8", timeout); !out.OK {
		t.Fatalf("second lookup failed: %s", out.Message)
	}
	if remaining < timeout/2 {
		t.Errorf("second lookup deadline %s away, want close to %s", remaining, timeout)
	}
}
