package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/xdg/pinwarden/internal/form"
	"github.com/xdg/pinwarden/internal/prompt"
)

const fallbackWidth = 80

// TTY asks on a terminal line by line, with echo off while the passphrase
// is typed. Ctrl-D at an empty prompt cancels.
type TTY struct {
	path   string
	open   func(path string) (*os.File, error)
	reader func(tty *os.File) prompt.CredentialReader
}

// NewTTY creates a TTY dialog that uses path when the caller names no
// terminal.
func NewTTY(path string) *TTY {
	return &TTY{
		path: path,
		open: openTTY,
		reader: func(tty *os.File) prompt.CredentialReader {
			return prompt.NewTerminalCredentialReader(tty, tty)
		},
	}
}

// openTTY opens the dialog terminal without adopting it as the controlling
// terminal of this process.
func openTTY(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return f, nil
}

// Ask implements Dialog.
func (t *TTY) Ask(ctx context.Context, f form.Form, h form.Hints) (string, error) {
	s := NewScreen(f, h)

	tty, err := t.open(ttyPath(h, t.path))
	if err != nil {
		return "", err
	}
	defer func() { _ = tty.Close() }()
	defer keepTerminalState(tty)()

	writeScreen(tty, s, terminalWidth(tty))
	r := t.reader(tty)
	for {
		passphrase, err := readAsync(ctx, r, s.Prompt+" ")
		if err != nil {
			return "", err
		}
		if !s.Repeat {
			return passphrase, nil
		}

		again, err := readAsync(ctx, r, s.RepeatPrompt+" ")
		if err != nil {
			return "", err
		}
		if again == passphrase {
			return passphrase, nil
		}
		_, _ = fmt.Fprintln(tty, "Passphrases do not match, try again.")
	}
}

// readAsync runs one blocking read so that ctx can end the wait.
func readAsync(ctx context.Context, r prompt.CredentialReader, label string) (string, error) {
	type result struct {
		secret string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		secret, err := r.ReadCredential(label)
		done <- result{secret, err}
	}()

	select {
	case res := <-done:
		if errors.Is(res.err, prompt.ErrNoInput) {
			return "", ErrCancelled
		}
		return res.secret, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// keepTerminalState snapshots the terminal mode and returns a function that
// restores it. A read abandoned on timeout would otherwise leave echo off.
func keepTerminalState(tty *os.File) func() {
	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	state, err := term.GetState(fd)
	if err != nil {
		return func() {}
	}
	return func() { _ = term.Restore(fd, state) }
}

func terminalWidth(tty *os.File) int {
	w, _, err := term.GetSize(int(tty.Fd()))
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}

// writeScreen prints everything above the input line.
func writeScreen(w io.Writer, s Screen, width int) {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(s.Title + "\n")
	}
	if s.Description != "" {
		b.WriteString(ansi.Wrap(s.Description, width, " ") + "\n")
	}
	if s.Error != "" {
		b.WriteString("Error: " + s.Error + "\n")
	}
	if s.Constraints != "" {
		b.WriteString("(" + s.Constraints + ")\n")
	}
	_, _ = io.WriteString(w, b.String())
}
