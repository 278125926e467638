package clog

import (
	"io"
	"os"
)

// std backs the package-level functions.
var std = NewLogger()

// Configure sets up the global logger. An empty logPath disables file
// logging. Quiet turns off stderr output.
func Configure(logPath string, level Level, quiet bool) error {
	std.SetLevel(level)
	std.SetQuiet(quiet)

	if logPath != "" {
		f, err := OpenLogFile(logPath)
		if err != nil {
			return err
		}
		std.SetFileOutput(f)
	}
	return nil
}

// SetLevel sets the minimum level written to the log file.
func SetLevel(level Level) {
	std.SetLevel(level)
}

// SetFileOutput sets the log file writer of the global logger.
func SetFileOutput(w io.Writer) {
	std.SetFileOutput(w)
}

// SetErrOutput sets the stderr writer of the global logger.
func SetErrOutput(w io.Writer) {
	std.SetErrOutput(w)
}

// SetQuiet turns stderr output of the global logger off or on.
func SetQuiet(quiet bool) {
	std.SetQuiet(quiet)
}

// Debug logs a diagnostic message with the global logger.
func Debug(format string, args ...any) {
	std.Debug(format, args...)
}

// Info logs an operational event with the global logger.
func Info(format string, args ...any) {
	std.Info(format, args...)
}

// Warn logs an unexpected but recoverable condition with the global logger.
func Warn(format string, args ...any) {
	std.Warn(format, args...)
}

// Error logs a failure with the global logger.
func Error(format string, args ...any) {
	std.Error(format, args...)
}

// FileWriter returns a writer that appends raw lines to the global
// logger's file output. Writes are dropped while no file is configured.
func FileWriter() io.Writer {
	return rawWriter{l: std}
}

// Close closes the file output if it is an io.Closer.
func Close() error {
	std.mu.Lock()
	defer std.mu.Unlock()

	if closer, ok := std.fileWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Reset restores the global logger to its initial state.
func Reset() {
	std = NewLogger()
}

// Discard drops all global output. Used by tests.
func Discard() {
	std.SetFileOutput(io.Discard)
	std.SetErrOutput(io.Discard)
}

// ReplaceGlobal swaps the global logger and returns the previous one.
func ReplaceGlobal(l *Logger) *Logger {
	old := std
	std = l
	return old
}

func init() {
	std.SetErrOutput(os.Stderr)
}
