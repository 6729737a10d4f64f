// Package checkers registers the supplementary diagnostics beyond the
// core report.
//
// Each checker is a self-contained module invoked by CLI flag or MCP
// tool. Checkers read shared facts from the run context but never write
// into the core diagnostic report.
package checkers
