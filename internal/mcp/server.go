// Package mcp exposes the diagnostics as MCP tools over stdio.
//
// Every tool funnels through the same shape: a ToolFunc taking a
// ToolInput and producing a ToolOutput whose Report is the rendered
// text. Each tool is registered with a rate limiter matching its cost;
// targets supplied by the client must already be validated by the
// adapter before any probe runs.
package mcp

import (
	"context"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/asennott/netdiag/internal/security"
)

// ToolFunc executes one diagnostic on behalf of an MCP client.
type ToolFunc func(ctx context.Context, input *ToolInput) (*ToolOutput, error)

type toolEntry struct {
	description string
	limiter     *security.RateLimiter
	fn          ToolFunc
}

// Registry maps tool names to their implementations.
type Registry struct {
	tools map[string]toolEntry
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]toolEntry)}
}

// Register adds a tool. The limiter bounds how fast this tool can be
// driven; subprocess-spawning tools share a tighter bucket than
// pure-socket ones.
func (r *Registry) Register(name, description string, limiter *security.RateLimiter, fn ToolFunc) {
	r.tools[name] = toolEntry{description: description, limiter: limiter, fn: fn}
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunServer serves the registry over stdio until the client disconnects
// or ctx is canceled.
func RunServer(ctx context.Context, registry *Registry, log zerolog.Logger) error {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "netdiag",
		Version: "1.0.0",
	}, nil)

	for _, name := range registry.Names() {
		addTool(server, name, registry.tools[name], log)
	}

	log.Info().Int("tools", len(registry.tools)).Msg("mcp server starting on stdio")
	if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		log.Error().Err(err).Msg("mcp server stopped")
		return err
	}
	return nil
}

func addTool(server *mcpsdk.Server, name string, entry toolEntry, log zerolog.Logger) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        name,
		Description: entry.description,
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, input ToolInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := entry.limiter.Wait(ctx); err != nil {
			log.Warn().Str("tool", name).Err(err).Msg("tool call abandoned while rate limited")
			return nil, ToolOutput{}, err
		}
		log.Info().Str("tool", name).Msg("tool invoked")

		output, err := entry.fn(ctx, &input)
		if err != nil {
			log.Warn().Str("tool", name).Err(err).Msg("tool failed")
			return nil, ToolOutput{}, err
		}

		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: output.Report},
			},
		}, *output, nil
	})
}
