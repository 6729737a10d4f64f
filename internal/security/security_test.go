package security

import (
	"context"
	"testing"
	"time"
)

func TestValidateGatewayIP(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		wantErr bool
	}{
		{"private 192.168", "192.168.1.1", false},
		{"private 10", "10.0.0.1", false},
		{"private 172.16", "172.16.0.1", false},
		{"link-local", "169.254.1.1", false},
		{"IPv6 ULA", "fd00::1", false},
		{"IPv6 link-local", "fe80::1", false},
		{"empty", "", true},
		{"garbage", "not-an-ip", true},
		{"loopback", "127.0.0.1", true},
		{"multicast", "224.0.0.1", true},
		{"unspecified", "0.0.0.0", true},
		{"public", "8.8.8.8", true},
		{"public v6", "2001:4860:4860::8888", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGatewayIP(tt.ip)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGatewayIP(%q) error = %v, wantErr %v", tt.ip, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeHostname(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantErr bool
	}{
		{"plain name", "google.com", false},
		{"subdomain", "dns.quad9.net", false},
		{"ip literal", "8.8.8.8", false},
		{"with port-ish colon", "fe80::1", false},
		{"underscore", "_dmarc.example.com", false},
		{"empty", "", true},
		{"semicolon", "host;rm -rf /", true},
		{"space", "host name", true},
		{"shell substitution", "$(whoami).com", true},
		{"pipe", "a|b", true},
		{"leading dash", "-c5", true},
		{"backtick", "`id`.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeHostname(tt.host)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeHostname(%q) error = %v, wantErr %v", tt.host, err, tt.wantErr)
			}
			if err == nil && got != tt.host {
				t.Errorf("SanitizeHostname(%q) = %q, want input unchanged", tt.host, got)
			}
		})
	}

	long := make([]byte, 254)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := SanitizeHostname(string(long)); err == nil {
		t.Error("SanitizeHostname accepted a 254-character name")
	}
}

func TestValidateProbeTarget(t *testing.T) {
	if err := ValidateProbeTarget("192.168.1.1"); err != nil {
		t.Errorf("ValidateProbeTarget(ip) = %v", err)
	}
	if err := ValidateProbeTarget("example.com"); err != nil {
		t.Errorf("ValidateProbeTarget(hostname) = %v", err)
	}
	if err := ValidateProbeTarget("a;b"); err == nil {
		t.Error("ValidateProbeTarget accepted a shell metacharacter")
	}
	if err := ValidateProbeTarget(""); err == nil {
		t.Error("ValidateProbeTarget accepted an empty target")
	}
}

func TestValidatePort(t *testing.T) {
	for _, p := range []int{1, 53, 65535} {
		if err := ValidatePort(p); err != nil {
			t.Errorf("ValidatePort(%d) = %v", p, err)
		}
	}
	for _, p := range []int{0, -1, 65536} {
		if err := ValidatePort(p); err == nil {
			t.Errorf("ValidatePort(%d) = nil, want error", p)
		}
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	limiter := NewRateLimiter(3, time.Second)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst of 3 took %s, want near-instant", elapsed)
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	limiter := NewRateLimiter(2, 200*time.Millisecond)

	ctx := context.Background()
	limiter.Wait(ctx)
	limiter.Wait(ctx)

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("third Wait returned after %s, want a refill delay", elapsed)
	}
}

func TestRateLimiterWaitHonorsCancellation(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	limiter.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- limiter.Wait(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Wait() on canceled context = nil, want error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}
