// Package checker defines the contract every supplementary check
// implements.
//
// A checker is a self-contained diagnostic beyond the core report:
// invoked by CLI flag or MCP tool, rendering through the supplied
// Output, never mutating the core report. The registry in the checkers
// package ties implementations to their flags and tools.
package checker

import (
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
)

type CheckerConfig interface{}

type Checker interface {
	Name() string
	Description() string
	Icon() string
	DefaultConfig() CheckerConfig
	RequiresGateway() bool
	DefaultEnabled() bool
	Run(rc *runner.RunContext, config CheckerConfig, out output.Output)
	MCPToolDefinition() *MCPTool
}

// MCPTool describes how a checker surfaces as an MCP tool.
type MCPTool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// CheckFlag ties a CLI flag to its checker.
type CheckFlag struct {
	Name            string
	Description     string
	Icon            string
	Checker         Checker
	RequiresGateway bool
	DefaultEnabled  bool
}
