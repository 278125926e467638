package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/xdg/pinwarden/internal/assuan"
	"github.com/xdg/pinwarden/internal/audit"
	"github.com/xdg/pinwarden/internal/clog"
)

// Session drives one pinentry conversation over a line reader and writer.
type Session struct {
	in         *bufio.Reader
	out        *bufio.Writer
	state      State
	events     chan Event
	outcomes   chan Outcome
	transcript *audit.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithTranscript records the conversation to l. Data replies are redacted.
func WithTranscript(l *audit.Logger) Option {
	return func(s *Session) { s.transcript = l }
}

// WithInfo sets the answers to GETINFO queries.
func WithInfo(info map[string]string) Option {
	return func(s *Session) { s.state = NewState(info) }
}

// New creates a session reading directives from r and writing replies to w.
func New(r io.Reader, w io.Writer, opts ...Option) *Session {
	s := &Session{
		in:       bufio.NewReader(r),
		out:      bufio.NewWriter(w),
		state:    NewState(nil),
		events:   make(chan Event, 1),
		outcomes: make(chan Outcome, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the channel the dialog consumes. It is closed when Run
// returns.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Submit delivers the passphrase typed by the user.
func (s *Session) Submit(passphrase string) error {
	return s.resolve(Outcome{Passphrase: passphrase})
}

// Cancel reports that the user dismissed the dialog.
func (s *Session) Cancel() error {
	return s.resolve(Outcome{Cancelled: true})
}

func (s *Session) resolve(o Outcome) error {
	select {
	case s.outcomes <- o:
		return nil
	default:
		return ErrAlreadyResolved
	}
}

// Run writes the greeting, then reads and answers directives until GETPIN is
// resolved, BYE is received, input ends or an error occurs. Every decode or
// stream error is fatal. Input ending before GETPIN or BYE returns nil
// without emitting an event. A cancelled dialog returns ErrCancelled after
// the ERR reply is written.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.events)

	start := time.Now()
	s.record(s.transcript.LogStart())
	defer func() { s.record(s.transcript.LogEnd(time.Since(start))) }()

	if err := s.write(s.state.Greeting()); err != nil {
		return s.fail(err)
	}

	for s.state.Phase() == PhaseAccumulating {
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			clog.Debug("session: input closed after %d directives", len(s.state.pending))
			return nil
		}
		if err != nil {
			return s.fail(err)
		}

		next, tr, err := s.state.Step(line)
		s.state = next
		if err != nil {
			return s.fail(err)
		}
		clog.Debug("session: directive %s", tr.Command)
		s.record(s.transcript.LogDirective(tr.Command))

		if err := s.apply(ctx, tr); err != nil {
			return s.fail(err)
		}
	}

	if s.state.Phase() != PhaseAwaitingPassphrase {
		return nil
	}

	var outcome Outcome
	select {
	case outcome = <-s.outcomes:
	case <-ctx.Done():
		return s.fail(ctx.Err())
	}

	next, tr, resolveErr := s.state.Resolve(outcome)
	s.state = next
	if errors.Is(resolveErr, ErrCancelled) {
		clog.Info("session: dialog cancelled")
		s.record(s.transcript.LogCancel())
	}
	if err := s.apply(ctx, tr); err != nil {
		return s.fail(err)
	}
	return resolveErr
}

// apply emits the transition's event, then writes its replies.
func (s *Session) apply(ctx context.Context, tr Transition) error {
	if tr.Event != nil {
		switch tr.Event.Kind {
		case EventFormReady:
			s.record(s.transcript.LogFormReady(tr.Event.Form.Prompt()))
		case EventBye:
			s.record(s.transcript.LogBye())
		}
		select {
		case s.events <- *tr.Event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, r := range tr.Replies {
		if err := s.write(r); err != nil {
			return err
		}
	}
	return nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator. A
// line longer than assuan.MaxLineLength is read to its end without being
// kept and fails as StringTooLong with its full length.
func (s *Session) readLine() (string, error) {
	const keep = assuan.MaxLineLength + len("\r\n")
	var (
		line []byte
		n    int
		last [2]byte
	)
	for {
		chunk, err := s.in.ReadSlice('\n')
		n += len(chunk)
		if n <= keep {
			line = append(line, chunk...)
		}
		for _, c := range chunk[max(0, len(chunk)-2):] {
			last[0], last[1] = last[1], c
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && n == 0 {
			return "", io.EOF
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", &IOError{Op: "read directive", Err: err}
		}
		break
	}

	end := n
	switch {
	case last[1] == '\n':
		end--
		if end > 0 && last[0] == '\r' {
			end--
		}
	case last[1] == '\r':
		end--
	}
	if end > assuan.MaxLineLength {
		return "", &assuan.ParseError{Kind: assuan.ParseStringTooLong, Len: end}
	}
	return string(line[:end]), nil
}

// write sends one reply and flushes it so the caller sees it before the
// next directive is read.
func (s *Session) write(r assuan.Response) error {
	if _, err := s.out.WriteString(r.Encode() + "\n"); err != nil {
		return &IOError{Op: "write reply", Err: err}
	}
	if err := s.out.Flush(); err != nil {
		return &IOError{Op: "write reply", Err: err}
	}
	clog.Debug("session: reply %s", r)
	s.record(s.transcript.LogReply(r))
	return nil
}

func (s *Session) fail(err error) error {
	clog.Error("session: %v", err)
	s.record(s.transcript.LogError(err))
	return err
}

// record logs transcript write failures without interrupting the session.
func (s *Session) record(err error) {
	if err != nil {
		clog.Warn("session: transcript: %v", err)
	}
}
