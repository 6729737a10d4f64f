// Package logging configures the process-wide log sinks: structured JSON
// to a size-rotated file, plus a console echo on stderr so failures are
// visible without tailing the log.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options describes where and how much to log.
type Options struct {
	Level      string // trace, debug, info, warn, error
	File       string // rotating JSON log path; empty disables the file sink
	MaxBytes   int    // rotation threshold for File
	MaxBackups int    // rotated files kept
	Verbose    bool   // echo debug and up to stderr
	Quiet      bool   // echo errors only
}

// New builds the root logger. Probe packages derive their own loggers
// from it via Module.
func New(opts Options) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(opts.Level))

	var sinks []io.Writer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err == nil {
			sinks = append(sinks, &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    maxSizeMB(opts.MaxBytes),
				MaxBackups: opts.MaxBackups,
			})
		}
	}

	echo := zerolog.WarnLevel
	switch {
	case opts.Quiet:
		echo = zerolog.ErrorLevel
	case opts.Verbose:
		echo = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	sinks = append(sinks, levelWriter{w: console, min: echo})

	return zerolog.New(zerolog.MultiLevelWriter(sinks...)).With().Timestamp().Logger()
}

// Module derives a sub-logger tagged with a module name.
func Module(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("module", name).Logger()
}

// levelWriter passes events at or above min and swallows the rest,
// letting the console echo run at a different threshold than the file.
type levelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (lw levelWriter) Write(p []byte) (int, error) { return lw.w.Write(p) }

func (lw levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < lw.min {
		return len(p), nil
	}
	return lw.w.Write(p)
}

// maxSizeMB converts the configured byte threshold to whole megabytes,
// which is the unit lumberjack rotates on.
func maxSizeMB(bytes int) int {
	mb := bytes / (1 << 20)
	if mb < 1 {
		return 1
	}
	return mb
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
