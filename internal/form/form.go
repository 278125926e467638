// Package form folds accumulated pinentry directives into the text a dialog
// displays.
package form

import (
	"time"

	"github.com/xdg/pinwarden/internal/assuan"
)

// Defaults used when no directive overrides a field.
const (
	DefaultPrompt      = "PIN:"
	DefaultOkLabel     = "OK"
	DefaultCancelLabel = "cancel"
)

// Form is the frozen prompt description handed to a dialog. Its fields are
// set once by Fold and only readable afterwards. Texts are still
// percent-escaped as sent by the caller.
type Form struct {
	prompt      string
	okLabel     string
	cancelLabel string
	description string
	hasDesc     bool
}

// Default returns the form shown when no directive was received.
func Default() Form {
	return Form{
		prompt:      DefaultPrompt,
		okLabel:     DefaultOkLabel,
		cancelLabel: DefaultCancelLabel,
	}
}

// Prompt returns the label in front of the passphrase field.
func (f Form) Prompt() string { return f.prompt }

// OkLabel returns the text of the confirm button.
func (f Form) OkLabel() string { return f.okLabel }

// CancelLabel returns the text of the cancel button.
func (f Form) CancelLabel() string { return f.cancelLabel }

// Description returns the SETDESC text and whether one was sent.
func (f Form) Description() (string, bool) { return f.description, f.hasDesc }

// Fold reduces commands left to right, starting from Default. SETPROMPT,
// SETOK, SETCANCEL and SETDESC set their field, last one wins; every other
// directive is ignored.
func Fold(commands []assuan.Command) Form {
	f := Default()
	for _, c := range commands {
		switch c.Kind {
		case assuan.CmdSetPrompt:
			f.prompt = c.Text
		case assuan.CmdSetOk:
			f.okLabel = c.Text
		case assuan.CmdSetCancel:
			f.cancelLabel = c.Text
		case assuan.CmdSetDesc:
			f.description = c.Text
			f.hasDesc = true
		}
	}
	return f
}

// Hints are secondary display settings taken from the same directives. They
// never change what the protocol replies; a dialog may use or ignore them.
type Hints struct {
	Title                string
	Error                string
	KeyInfo              string
	ConstraintsHintShort string
	TTYName              string
	TTYType              string
	Timeout              time.Duration
	// Repeat asks for the passphrase twice.
	Repeat bool
}

// FoldHints reduces commands into Hints, last one wins.
func FoldHints(commands []assuan.Command) Hints {
	var h Hints
	for _, c := range commands {
		switch c.Kind {
		case assuan.CmdSetTitle:
			h.Title = c.Text
		case assuan.CmdSetError:
			h.Error = c.Text
		case assuan.CmdSetKeyInfo:
			h.KeyInfo = c.Text
		case assuan.CmdSetTimeout:
			h.Timeout = c.Timeout
		case assuan.CmdSetRepeat:
			h.Repeat = true
		case assuan.CmdOption:
			switch c.Option.Kind {
			case assuan.OptTTYName:
				h.TTYName = c.Option.Value
			case assuan.OptTTYType:
				h.TTYType = c.Option.Value
			case assuan.OptConstraintsHintShort:
				h.ConstraintsHintShort = c.Option.Value
			}
		}
	}
	return h
}
