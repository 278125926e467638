// Package dialog asks the user for the passphrase a session is waiting on.
//
// Serve reads session events and hands each FormReady to a Dialog. Two
// terminal back-ends exist: TTY, a plain prompt with hidden input, and TUI,
// a bubbletea form. Both open the terminal named by OPTION ttyname, falling
// back to the configured one, because stdin and stdout carry the protocol.
package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/xdg/pinwarden/internal/assuan"
	"github.com/xdg/pinwarden/internal/clog"
	"github.com/xdg/pinwarden/internal/config"
	"github.com/xdg/pinwarden/internal/form"
)

// ErrCancelled is returned by Ask when the user dismisses the dialog.
var ErrCancelled = errors.New("dialog cancelled")

// Dialog shows a form and returns the passphrase the user entered.
// Ask must return when ctx is done.
type Dialog interface {
	Ask(ctx context.Context, f form.Form, h form.Hints) (string, error)
}

// Func adapts a function to the Dialog interface.
type Func func(ctx context.Context, f form.Form, h form.Hints) (string, error)

// Ask calls fn.
func (fn Func) Ask(ctx context.Context, f form.Form, h form.Hints) (string, error) {
	return fn(ctx, f, h)
}

// New returns the back-end selected by cfg.Backend.
func New(cfg config.DialogConfig) (Dialog, error) {
	switch cfg.Backend {
	case config.BackendTUI:
		return NewTUI(cfg.TTY, cfg.NoColor), nil
	case config.BackendTTY:
		return NewTTY(cfg.TTY), nil
	}
	return nil, fmt.Errorf("unknown dialog backend %q", cfg.Backend)
}

// repeatPrompt labels the confirmation field requested by SETREPEAT.
const repeatPrompt = "Repeat:"

// Screen is the decoded, display-ready text of one form.
type Screen struct {
	Title        string
	Description  string
	Prompt       string
	OK           string
	Cancel       string
	Error        string
	Constraints  string
	Repeat       bool
	RepeatPrompt string
}

// NewScreen percent-decodes every text of f and h. A text that does not
// decode is shown as sent.
func NewScreen(f form.Form, h form.Hints) Screen {
	desc, _ := f.Description()
	s := Screen{
		Title:        decode(h.Title),
		Description:  decode(desc),
		Prompt:       decode(f.Prompt()),
		OK:           decode(f.OkLabel()),
		Cancel:       decode(f.CancelLabel()),
		Error:        decode(h.Error),
		Constraints:  decode(h.ConstraintsHintShort),
		Repeat:       h.Repeat,
	}
	if s.Repeat {
		s.RepeatPrompt = repeatPrompt
	}
	return s
}

func decode(s string) string {
	out, err := assuan.Unescape(s)
	if err != nil {
		clog.Debug("dialog: showing text raw: %v", err)
		return s
	}
	return out
}

// ttyPath picks the terminal for a form: the caller's OPTION ttyname, else
// the configured default.
func ttyPath(h form.Hints, fallback string) string {
	if h.TTYName != "" {
		return h.TTYName
	}
	return fallback
}
