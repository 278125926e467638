package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdg/pinwarden/internal/assuan"
	"github.com/xdg/pinwarden/internal/audit"
	"github.com/xdg/pinwarden/internal/clog"
)

func TestMain(m *testing.M) {
	clog.Discard()
	os.Exit(m.Run())
}

func runAsync(ctx context.Context, s *Session) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	return errc
}

func waitErr(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish")
		return nil
	}
}

func nextEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
		return Event{}
	}
}

func TestRun_GetPinSuccess(t *testing.T) {
	in := strings.NewReader("SETDESC Unlock key\nSETPROMPT Passphrase:\nGETPIN\nBYE\n")
	var out bytes.Buffer
	s := New(in, &out)

	errc := runAsync(context.Background(), s)
	ev := nextEvent(t, s)
	require.Equal(t, EventFormReady, ev.Kind)
	assert.Equal(t, "Passphrase:", ev.Form.Prompt())
	desc, ok := ev.Form.Description()
	assert.True(t, ok)
	assert.Equal(t, "Unlock key", desc)

	require.NoError(t, s.Submit("hunter2"))
	require.NoError(t, waitErr(t, errc))

	assert.Equal(t, "OK Please go ahead\nOK\nOK\nD hunter2\nOK\n", out.String())

	_, open := <-s.Events()
	assert.False(t, open, "events channel should be closed")
}

func TestRun_Bye(t *testing.T) {
	in := strings.NewReader("SETDESC pending\nBYE\nSETPROMPT never read\n")
	var out bytes.Buffer
	s := New(in, &out)

	errc := runAsync(context.Background(), s)
	ev := nextEvent(t, s)
	assert.Equal(t, EventBye, ev.Kind)
	require.NoError(t, waitErr(t, errc))

	assert.Equal(t, "OK Please go ahead\nOK\nOK\n", out.String())
}

func TestRun_Cancel(t *testing.T) {
	in := strings.NewReader("GETPIN\n")
	var out bytes.Buffer
	s := New(in, &out)

	errc := runAsync(context.Background(), s)
	nextEvent(t, s)
	require.NoError(t, s.Cancel())

	assert.ErrorIs(t, waitErr(t, errc), ErrCancelled)
	assert.Equal(t, "OK Please go ahead\nERR 83886179 Operation cancelled\n", out.String())
}

func TestRun_OutcomeDeliveredOnce(t *testing.T) {
	s := New(strings.NewReader(""), io.Discard)
	require.NoError(t, s.Submit("a"))
	assert.ErrorIs(t, s.Cancel(), ErrAlreadyResolved)
}

func TestRun_DecodeErrorIsFatal(t *testing.T) {
	in := strings.NewReader("SETPROMPT a\nGARBAGE\nGETPIN\n")
	var out bytes.Buffer
	s := New(in, &out)

	err := s.Run(context.Background())
	assert.ErrorIs(t, err, assuan.ErrUnknownCommand)
	assert.Equal(t, "OK Please go ahead\nOK\n", out.String())

	_, open := <-s.Events()
	assert.False(t, open)
}

func TestRun_EmptyLineIsFatal(t *testing.T) {
	var out bytes.Buffer
	err := New(strings.NewReader("\nGETPIN\n"), &out).Run(context.Background())
	assert.ErrorIs(t, err, assuan.ErrEmpty)
	assert.Equal(t, "OK Please go ahead\n", out.String())
}

func TestRun_OverlongLine(t *testing.T) {
	line := "SETDESC " + strings.Repeat("x", assuan.MaxLineLength)
	err := New(strings.NewReader(line+"\n"), io.Discard).Run(context.Background())

	var perr *assuan.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, len(line), perr.Len)
}

func TestRun_LineBeyondReadBuffer(t *testing.T) {
	line := "SETDESC " + strings.Repeat("x", 70000)
	var out bytes.Buffer
	err := New(strings.NewReader("SETPROMPT a\n"+line+"\r\nGETPIN\n"), &out).Run(context.Background())

	var perr *assuan.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, assuan.ParseStringTooLong, perr.Kind)
	assert.Equal(t, len(line), perr.Len)
	assert.Equal(t, "OK Please go ahead\nOK\n", out.String())
}

func TestRun_LineEndings(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("SETPROMPT a\r\nGETINFO flavor\nBYE"), &out, WithInfo(map[string]string{"flavor": "test"}))

	errc := runAsync(context.Background(), s)
	ev := nextEvent(t, s)
	assert.Equal(t, EventBye, ev.Kind)
	require.NoError(t, waitErr(t, errc))
	assert.Equal(t, "OK Please go ahead\nOK\nD test\nOK\nOK\n", out.String())
}

func TestRun_LongestLineAccepted(t *testing.T) {
	line := "SETDESC " + strings.Repeat("x", assuan.MaxLineLength-len("SETDESC "))
	var out bytes.Buffer
	require.NoError(t, New(strings.NewReader(line+"\r\n"), &out).Run(context.Background()))
	assert.Equal(t, "OK Please go ahead\nOK\n", out.String())
}

func TestRun_EOFBeforeGetPin(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("SETPROMPT a\n"), &out)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "OK Please go ahead\nOK\n", out.String())
	_, open := <-s.Events()
	assert.False(t, open)
}

func TestRun_GreetingAlwaysFirst(t *testing.T) {
	for _, input := range []string{"", "\n", "BYE\n", "GETINFO version\n"} {
		var out bytes.Buffer
		_ = New(strings.NewReader(input), &out).Run(context.Background())
		assert.True(t, strings.HasPrefix(out.String(), "OK Please go ahead\n"), "input %q", input)
		assert.Equal(t, 1, strings.Count(out.String(), "Please go ahead"), "input %q", input)
	}
}

func TestRun_GetInfo(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("GETINFO flavor\n"), &out, WithInfo(map[string]string{"flavor": "pinwarden"}))

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "OK Please go ahead\nD pinwarden\nOK\n", out.String())
}

// Each directive is answered before the next one is written.
func TestRun_ReplyBeforeNextDirective(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	s := New(inR, outW)
	errc := runAsync(context.Background(), s)

	replies := bufio.NewReader(outR)
	readReply := func() string {
		t.Helper()
		line, err := replies.ReadString('\n')
		require.NoError(t, err)
		return strings.TrimSuffix(line, "\n")
	}

	assert.Equal(t, "OK Please go ahead", readReply())
	for _, directive := range []string{"SETTITLE t", "SETPROMPT p", "OPTION no-grab"} {
		_, err := io.WriteString(inW, directive+"\n")
		require.NoError(t, err)
		assert.Equal(t, "OK", readReply(), directive)
	}

	_, err := io.WriteString(inW, "GETPIN\n")
	require.NoError(t, err)
	ev := nextEvent(t, s)
	assert.Equal(t, "p", ev.Form.Prompt())

	require.NoError(t, s.Submit("s3cret"))
	assert.Equal(t, "D s3cret", readReply())
	assert.Equal(t, "OK", readReply())
	require.NoError(t, waitErr(t, errc))
}

func TestRun_ContextCancelledWhileAwaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(strings.NewReader("GETPIN\n"), io.Discard)
	errc := runAsync(ctx, s)

	nextEvent(t, s)
	cancel()
	assert.ErrorIs(t, waitErr(t, errc), context.Canceled)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestRun_WriteErrorIsFatal(t *testing.T) {
	err := New(strings.NewReader("GETPIN\n"), brokenWriter{}).Run(context.Background())

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write reply", ioErr.Op)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("stdin gone") }

func TestRun_ReadErrorIsFatal(t *testing.T) {
	err := New(brokenReader{}, io.Discard).Run(context.Background())

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read directive", ioErr.Op)
}

func TestRun_TranscriptNeverHoldsSecret(t *testing.T) {
	var transcript bytes.Buffer
	s := New(strings.NewReader("SETPROMPT PIN:\nGETPIN\n"), io.Discard,
		WithTranscript(audit.NewLogger(&transcript, "test")))

	errc := runAsync(context.Background(), s)
	nextEvent(t, s)
	require.NoError(t, s.Submit("correct horse battery staple"))
	require.NoError(t, waitErr(t, errc))

	got := transcript.String()
	assert.NotContains(t, got, "correct horse")
	for _, want := range []string{" START ", " DIRECTIVE ", " FORM_READY ", `reply="D <SECURE>"`, " END "} {
		assert.Contains(t, got, want)
	}
}
