package dialog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdg/pinwarden/internal/form"
	"github.com/xdg/pinwarden/internal/session"
)

type fakeSession struct {
	events    chan session.Event
	submitted []string
	cancels   int
}

func newFakeSession(evs ...session.Event) *fakeSession {
	s := &fakeSession{events: make(chan session.Event, len(evs))}
	for _, ev := range evs {
		s.events <- ev
	}
	close(s.events)
	return s
}

func (s *fakeSession) Events() <-chan session.Event { return s.events }

func (s *fakeSession) Submit(p string) error {
	s.submitted = append(s.submitted, p)
	return nil
}

func (s *fakeSession) Cancel() error {
	s.cancels++
	return nil
}

func formReady(h form.Hints) session.Event {
	return session.Event{Kind: session.EventFormReady, Form: form.Default(), Hints: h}
}

func answerWith(p string, err error) Func {
	return func(context.Context, form.Form, form.Hints) (string, error) { return p, err }
}

func TestServe_Submits(t *testing.T) {
	s := newFakeSession(formReady(form.Hints{}))

	require.NoError(t, Serve(context.Background(), s, answerWith("s3cret", nil)))
	assert.Equal(t, []string{"s3cret"}, s.submitted)
	assert.Zero(t, s.cancels)
}

func TestServe_UserCancel(t *testing.T) {
	s := newFakeSession(formReady(form.Hints{}))

	require.NoError(t, Serve(context.Background(), s, answerWith("", ErrCancelled)))
	assert.Empty(t, s.submitted)
	assert.Equal(t, 1, s.cancels)
}

func TestServe_DialogFailureCancelsAndReturns(t *testing.T) {
	s := newFakeSession(formReady(form.Hints{}))
	boom := errors.New("no terminal")

	err := Serve(context.Background(), s, answerWith("", boom))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.cancels)
}

func TestServe_Bye(t *testing.T) {
	s := newFakeSession(session.Event{Kind: session.EventBye}, formReady(form.Hints{}))

	require.NoError(t, Serve(context.Background(), s, answerWith("unused", nil)))
	assert.Empty(t, s.submitted)
}

func TestServe_ClosedWithoutEvents(t *testing.T) {
	require.NoError(t, Serve(context.Background(), newFakeSession(), answerWith("", nil)))
}

func waitForDeadline(ctx context.Context, _ form.Form, _ form.Hints) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestServe_HintTimeoutCancels(t *testing.T) {
	s := newFakeSession(formReady(form.Hints{Timeout: 10 * time.Millisecond}))

	require.NoError(t, Serve(context.Background(), s, Func(waitForDeadline)))
	assert.Equal(t, 1, s.cancels)
}

func TestServe_DefaultTimeout(t *testing.T) {
	s := newFakeSession(formReady(form.Hints{}))

	err := Serve(context.Background(), s, Func(waitForDeadline), WithDefaultTimeout(10*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1, s.cancels)
}

func TestServe_HintTimeoutPassedToDialog(t *testing.T) {
	s := newFakeSession(formReady(form.Hints{Timeout: time.Hour}))

	var deadline time.Time
	var ok bool
	d := Func(func(ctx context.Context, _ form.Form, _ form.Hints) (string, error) {
		deadline, ok = ctx.Deadline()
		return "x", nil
	})
	require.NoError(t, Serve(context.Background(), s, d))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), deadline, time.Minute)
}

func TestServe_ParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events := make(chan session.Event)
	s := &fakeSession{events: events}

	assert.ErrorIs(t, Serve(ctx, s, answerWith("", nil)), context.Canceled)
}

// Drives a real session end to end.
func TestServe_WithSession(t *testing.T) {
	in := strings.NewReader("SETDESC Unlock%20key\nSETPROMPT PIN:\nGETPIN\n")
	var out strings.Builder
	sess := session.New(in, &out)

	var seen Screen
	d := Func(func(_ context.Context, f form.Form, h form.Hints) (string, error) {
		seen = NewScreen(f, h)
		return "1234", nil
	})

	errc := make(chan error, 1)
	go func() { errc <- sess.Run(context.Background()) }()

	require.NoError(t, Serve(context.Background(), sess, d))
	require.NoError(t, <-errc)
	assert.Equal(t, "Unlock key", seen.Description)
	assert.Equal(t, "OK Please go ahead\nOK\nOK\nD 1234\nOK\n", out.String())
}

func TestServe_WithSessionCancel(t *testing.T) {
	sess := session.New(strings.NewReader("GETPIN\n"), io.Discard)

	errc := make(chan error, 1)
	go func() { errc <- sess.Run(context.Background()) }()

	require.NoError(t, Serve(context.Background(), sess, answerWith("", ErrCancelled)))
	assert.ErrorIs(t, <-errc, session.ErrCancelled)
}
