package mcp

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/asennott/netdiag/internal/security"
)

func TestRegistryRegisterAndNames(t *testing.T) {
	r := NewRegistry()
	limiter := security.NewRateLimiter(10, time.Second)
	r.Register("ping_host", "ping", limiter, func(ctx context.Context, in *ToolInput) (*ToolOutput, error) {
		return &ToolOutput{Summary: "ok"}, nil
	})
	r.Register("resolve_dns", "dns", limiter, func(ctx context.Context, in *ToolInput) (*ToolOutput, error) {
		return &ToolOutput{Summary: "ok"}, nil
	})

	want := []string{"ping_host", "resolve_dns"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v (sorted)", got, want)
	}
}

func TestRegistryToolInvocation(t *testing.T) {
	r := NewRegistry()
	var seen *ToolInput
	r.Register("ping_host", "ping", security.NewRateLimiter(10, time.Second),
		func(ctx context.Context, in *ToolInput) (*ToolOutput, error) {
			seen = in
			return &ToolOutput{Summary: "pinged " + in.Target, Report: "report text"}, nil
		})

	entry := r.tools["ping_host"]
	out, err := entry.fn(context.Background(), &ToolInput{Target: "192.168.1.1", Count: 2})
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if seen.Target != "192.168.1.1" || seen.Count != 2 {
		t.Errorf("input not passed through: %+v", seen)
	}
	if out.Summary != "pinged 192.168.1.1" || out.Report != "report text" {
		t.Errorf("output = %+v", out)
	}
}
