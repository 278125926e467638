// Package term is pinwarden's user-facing output for the config
// subcommands. Operational messages go through internal/clog instead.
//
// While a pinentry session runs, stdout carries the protocol. Reserve
// redirects Print output to stderr for that time so nothing else can
// write a stray line into the reply stream.
package term

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu       sync.Mutex
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
	silent   bool
	reserved bool
)

// SetSilent suppresses Print, Printf and Println. Warn and Error are
// always written.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// IsSilent reports whether silent mode is on.
func IsSilent() bool {
	mu.Lock()
	defer mu.Unlock()
	return silent
}

// Reserve routes Print output to stderr until the returned release
// function is called.
func Reserve() (release func()) {
	mu.Lock()
	defer mu.Unlock()
	reserved = true
	return func() {
		mu.Lock()
		defer mu.Unlock()
		reserved = false
	}
}

// SetOutput sets the stdout writer. nil restores os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	stdout = w
}

// SetErrOutput sets the stderr writer. nil restores os.Stderr.
func SetErrOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	stderr = w
}

// out returns the current Print destination. Callers hold mu.
func out() io.Writer {
	switch {
	case silent:
		return io.Discard
	case reserved:
		return stderr
	default:
		return stdout
	}
}

func Print(a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprint(out(), a...)
}

func Printf(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintf(out(), format, a...)
}

func Println(a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintln(out(), a...)
}

// Warn writes "Warning: " and the message to stderr.
func Warn(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintf(stderr, "Warning: %s\n", fmt.Sprintf(format, a...))
}

// Error writes "Error: " and the message to stderr.
func Error(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintf(stderr, "Error: %s\n", fmt.Sprintf(format, a...))
}

// Stdout returns the writer Print would use, for libraries that need an
// io.Writer.
func Stdout() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out()
}

// Stderr returns the current stderr writer.
func Stderr() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return stderr
}

// Reset restores the package defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	stdout = os.Stdout
	stderr = os.Stderr
	silent = false
	reserved = false
}

// Discard drops all output. Used by tests.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	stdout = io.Discard
	stderr = io.Discard
}
