// Package output provides the rendering interface shared by the report
// printer and the supplementary checkers, with streaming and buffered
// modes.
//
// The Output interface abstracts where diagnostic text goes, so the same
// checker code serves the interactive CLI and the MCP server:
//
//   - StreamingOutput: writes directly to an io.Writer as checks run
//   - BufferedOutput: collects lines in memory for later assembly into a
//     tool response
//   - NoOpOutput: swallows everything, for tests
//
// Usage (interactive):
//
//	out := output.NewStreamingOutput(os.Stdout, verbose)
//	out.Section("📡", "Routing table")
//	out.Success("default route present")
//
// Usage (MCP):
//
//	out := output.NewBufferedOutput()
//	// ... checker runs ...
//	report := out.Text() // joined non-debug lines
//
// All implementations are safe for concurrent use.
package output
