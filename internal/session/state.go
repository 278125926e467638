package session

import (
	"slices"

	"github.com/xdg/pinwarden/internal/assuan"
	"github.com/xdg/pinwarden/internal/form"
)

// Phase is the position of a session in its lifecycle.
type Phase int

const (
	// PhaseAccumulating reads directives and replies OK to each.
	PhaseAccumulating Phase = iota
	// PhaseAwaitingPassphrase waits for the dialog after GETPIN.
	PhaseAwaitingPassphrase
	// PhaseTerminated accepts nothing more.
	PhaseTerminated
)

// String returns a lowercase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseAccumulating:
		return "accumulating"
	case PhaseAwaitingPassphrase:
		return "awaiting-passphrase"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// EventKind identifies what the dialog is asked to do.
type EventKind int

const (
	// EventBye ends the session; the dialog should exit.
	EventBye EventKind = iota
	// EventFormReady asks the dialog for a passphrase.
	EventFormReady
)

// Event is handed to the dialog. Form and Hints are only set for
// EventFormReady.
type Event struct {
	Kind  EventKind
	Form  form.Form
	Hints form.Hints
}

// Outcome is what the dialog hands back after EventFormReady.
type Outcome struct {
	Passphrase string
	Cancelled  bool
}

// Transition describes the effects of one reducer step, in order: emit
// Event (if any), then write Replies.
type Transition struct {
	Command assuan.Command
	Replies []assuan.Response
	Event   *Event
}

// State is an immutable snapshot of the reducer. Step and Resolve return a
// new State and never modify the receiver.
type State struct {
	phase   Phase
	pending []assuan.Command
	info    map[string]string
}

// NewState returns a state accepting directives. info answers GETINFO
// queries; unknown keys are acknowledged with a bare OK.
func NewState(info map[string]string) State {
	return State{phase: PhaseAccumulating, info: info}
}

// Phase reports where the session is.
func (s State) Phase() Phase { return s.phase }

// Greeting is the reply written once before any directive is read.
func (s State) Greeting() assuan.Response { return assuan.OkHello() }

// Step decodes line and advances the state. A decode error terminates the
// session: the returned state is PhaseTerminated and no reply is due.
func (s State) Step(line string) (State, Transition, error) {
	if s.phase != PhaseAccumulating {
		return s, Transition{}, ErrNotAccumulating
	}

	cmd, err := assuan.ParseCommand(line)
	if err != nil {
		s.phase = PhaseTerminated
		return s, Transition{}, err
	}

	tr := Transition{Command: cmd}
	switch cmd.Kind {
	case assuan.CmdGetPin:
		tr.Event = &Event{
			Kind:  EventFormReady,
			Form:  form.Fold(s.pending),
			Hints: form.FoldHints(s.pending),
		}
		s.phase = PhaseAwaitingPassphrase
	case assuan.CmdBye:
		tr.Event = &Event{Kind: EventBye}
		tr.Replies = []assuan.Response{assuan.Ok()}
		s.phase = PhaseTerminated
	default:
		s.pending = append(slices.Clip(s.pending), cmd)
		if v, ok := s.info[cmd.Text]; ok && cmd.Kind == assuan.CmdGetInfo {
			tr.Replies = append(tr.Replies, assuan.Data(v))
		}
		tr.Replies = append(tr.Replies, assuan.Ok())
	}
	return s, tr, nil
}

// Resolve applies the dialog outcome to a session awaiting a passphrase.
// A cancelled outcome yields the ERR reply and ErrCancelled.
func (s State) Resolve(o Outcome) (State, Transition, error) {
	if s.phase != PhaseAwaitingPassphrase {
		return s, Transition{}, ErrNotAwaiting
	}
	s.phase = PhaseTerminated

	if o.Cancelled {
		return s, Transition{
			Replies: []assuan.Response{assuan.Err(assuan.ErrCodeCancelled, "Operation cancelled")},
		}, ErrCancelled
	}
	return s, Transition{
		Replies: []assuan.Response{assuan.Data(o.Passphrase), assuan.Ok()},
	}, nil
}
