// Package logger provides verbose logging for the scoperag CLI and server.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr to help users follow the load and query pipeline.
// Warnings and errors are always written. Info messages are written in
// verbose mode or once ShowInfo is enabled.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose  bool
	showInfo bool
	output   io.Writer = os.Stderr
	base               = build(os.Stderr, false, false)
)

// build creates the zap logger for the given output and verbosity.
func build(w io.Writer, v, info bool) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case v:
		level = zapcore.DebugLevel
	case info:
		level = zapcore.InfoLevel
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      bracketLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// bracketLevelEncoder renders levels as "[DEBUG]", "[INFO]" etc.
func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build(output, verbose, showInfo)
}

// ShowInfo writes Info messages even when verbose mode is off.
// Long-running servers enable it for access logs and reload notices.
func ShowInfo(on bool) {
	mu.Lock()
	defer mu.Unlock()
	showInfo = on
	base = build(output, verbose, showInfo)
}

// InfoShown reports whether Info messages are currently written.
func InfoShown() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose || showInfo
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build(output, verbose, showInfo)
}

// L returns the underlying structured logger.
// Use it where typed fields read better than a format string.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Section prints a section header in verbose mode or when ShowInfo is on.
func Section(name string) {
	L().Sugar().Infof("=== %s ===", name)
}

// Info prints an informational message in verbose mode or when ShowInfo is on.
func Info(format string, args ...any) {
	L().Sugar().Infof(format, args...)
}

// Warn prints a warning message regardless of verbose mode.
func Warn(format string, args ...any) {
	L().Sugar().Warnf(format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	L().Sugar().Errorf(format, args...)
}
