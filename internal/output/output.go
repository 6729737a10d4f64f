package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type Output interface {
	Section(icon, title string)
	Header(title string)
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Detail(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Println(s string)
	Printf(format string, args ...interface{})
}

// StreamingOutput writes lines as they are produced. Debug lines appear
// only when the writer was built verbose.
type StreamingOutput struct {
	writer  io.Writer
	verbose bool
	mu      sync.Mutex
}

func NewStreamingOutput(writer io.Writer, verbose bool) *StreamingOutput {
	if writer == nil {
		writer = os.Stdout
	}
	return &StreamingOutput{writer: writer, verbose: verbose}
}

func (o *StreamingOutput) Section(icon, title string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "\n%s %s\n", icon, title)
}

func (o *StreamingOutput) Header(title string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func (o *StreamingOutput) Info(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "  "+format+"\n", args...)
}

func (o *StreamingOutput) Success(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "  ✅ "+format+"\n", args...)
}

func (o *StreamingOutput) Warning(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "  ⚠️  "+format+"\n", args...)
}

func (o *StreamingOutput) Error(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "  ❌ "+format+"\n", args...)
}

func (o *StreamingOutput) Detail(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "   "+format+"\n", args...)
}

func (o *StreamingOutput) Debug(format string, args ...interface{}) {
	if !o.verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, "  🔍 "+format+"\n", args...)
}

func (o *StreamingOutput) Println(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.writer, s)
}

func (o *StreamingOutput) Printf(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.writer, format, args...)
}

type Line struct {
	Level   string
	Message string
}

// BufferedOutput collects lines for callers that need the finished text,
// like the MCP tool handlers.
type BufferedOutput struct {
	lines []Line
	mu    sync.Mutex
}

func NewBufferedOutput() *BufferedOutput {
	return &BufferedOutput{lines: make([]Line, 0)}
}

func (o *BufferedOutput) append(level, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, Line{Level: level, Message: message})
}

func (o *BufferedOutput) Section(icon, title string) {
	o.append("section", fmt.Sprintf("\n%s %s", icon, title))
}

func (o *BufferedOutput) Header(title string) {
	o.append("header", fmt.Sprintf("\n%s\n%s", title, strings.Repeat("=", len(title))))
}

func (o *BufferedOutput) Info(format string, args ...interface{}) {
	o.append("info", fmt.Sprintf("  "+format, args...))
}

func (o *BufferedOutput) Success(format string, args ...interface{}) {
	o.append("success", fmt.Sprintf("  ✅ "+format, args...))
}

func (o *BufferedOutput) Warning(format string, args ...interface{}) {
	o.append("warning", fmt.Sprintf("  ⚠️  "+format, args...))
}

func (o *BufferedOutput) Error(format string, args ...interface{}) {
	o.append("error", fmt.Sprintf("  ❌ "+format, args...))
}

func (o *BufferedOutput) Detail(format string, args ...interface{}) {
	o.append("detail", fmt.Sprintf("   "+format, args...))
}

func (o *BufferedOutput) Debug(format string, args ...interface{}) {
	o.append("debug", fmt.Sprintf("  🔍 "+format, args...))
}

func (o *BufferedOutput) Println(s string) {
	o.append("info", s)
}

func (o *BufferedOutput) Printf(format string, args ...interface{}) {
	o.append("info", fmt.Sprintf(format, args...))
}

func (o *BufferedOutput) Flush(writer io.Writer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, line := range o.lines {
		fmt.Fprintln(writer, line.Message)
	}
}

func (o *BufferedOutput) Lines() []Line {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Line{}, o.lines...)
}

// Text joins the buffered lines, skipping debug noise. This is what MCP
// tool responses carry.
func (o *BufferedOutput) Text() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var b strings.Builder
	for _, line := range o.lines {
		if line.Level == "debug" {
			continue
		}
		b.WriteString(line.Message)
		b.WriteByte('\n')
	}
	return b.String()
}

// NoOpOutput swallows everything; tests use it to silence checkers.
type NoOpOutput struct{}

func NewNoOpOutput() *NoOpOutput {
	return &NoOpOutput{}
}

func (o *NoOpOutput) Section(icon, title string)                 {}
func (o *NoOpOutput) Header(title string)                        {}
func (o *NoOpOutput) Info(format string, args ...interface{})    {}
func (o *NoOpOutput) Success(format string, args ...interface{}) {}
func (o *NoOpOutput) Warning(format string, args ...interface{}) {}
func (o *NoOpOutput) Error(format string, args ...interface{})   {}
func (o *NoOpOutput) Detail(format string, args ...interface{})  {}
func (o *NoOpOutput) Debug(format string, args ...interface{})   {}
func (o *NoOpOutput) Println(s string)                           {}
func (o *NoOpOutput) Printf(format string, args ...interface{})  {}
