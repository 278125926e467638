package audit

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xdg/pinwarden/internal/assuan"
)

// Fixed timestamp for deterministic testing
var testTime = time.Date(2024, 1, 15, 14, 32, 5, 0, time.UTC)

func TestEventFormat(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "start",
			event: Event{Timestamp: testTime, Type: EventStart, Session: "4242"},
			want:  `2024-01-15T14:32:05Z PINENTRY START session=4242`,
		},
		{
			name:  "directive",
			event: Event{Timestamp: testTime, Type: EventDirective, Session: "4242", Directive: `SETPROMPT "PIN:"`},
			want:  `2024-01-15T14:32:05Z PINENTRY DIRECTIVE session=4242 cmd="SETPROMPT \"PIN:\""`,
		},
		{
			name:  "reply",
			event: Event{Timestamp: testTime, Type: EventReply, Session: "4242", Reply: "OK"},
			want:  `2024-01-15T14:32:05Z PINENTRY REPLY session=4242 reply="OK"`,
		},
		{
			name:  "form ready",
			event: Event{Timestamp: testTime, Type: EventFormReady, Session: "4242", Prompt: "Passphrase:"},
			want:  `2024-01-15T14:32:05Z PINENTRY FORM_READY session=4242 prompt="Passphrase:"`,
		},
		{
			name:  "error",
			event: Event{Timestamp: testTime, Type: EventError, Session: "4242", Reason: "empty string"},
			want:  `2024-01-15T14:32:05Z PINENTRY ERROR session=4242 reason="empty string"`,
		},
		{
			name:  "end",
			event: Event{Timestamp: testTime, Type: EventEnd, Session: "4242", Duration: 2300 * time.Millisecond},
			want:  `2024-01-15T14:32:05Z PINENTRY END session=4242 duration=2.3s`,
		},
		{
			name:  "empty optional field",
			event: Event{Timestamp: testTime, Type: EventDirective, Session: "1"},
			want:  `2024-01-15T14:32:05Z PINENTRY DIRECTIVE session=1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Format(); got != tt.want {
				t.Errorf("Format() =\n  got:  %q\n  want: %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "0.5ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestLogger_RedactsData(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "7")
	l.now = func() time.Time { return testTime }

	if err := l.LogReply(assuan.Data("correct horse battery staple")); err != nil {
		t.Fatalf("LogReply() error = %v", err)
	}
	if err := l.LogReply(assuan.Ok()); err != nil {
		t.Fatalf("LogReply() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "correct horse") {
		t.Errorf("transcript leaked the secret: %s", out)
	}
	want := "2024-01-15T14:32:05Z PINENTRY REPLY session=7 reply=\"D <SECURE>\"\n" +
		"2024-01-15T14:32:05Z PINENTRY REPLY session=7 reply=\"OK\"\n"
	if out != want {
		t.Errorf("transcript =\n%s\nwant\n%s", out, want)
	}
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "9")
	l.now = func() time.Time { return testTime }

	_ = l.LogStart()
	_ = l.LogDirective(assuan.Command{Kind: assuan.CmdSetDesc, Text: "unlock"})
	_ = l.LogFormReady("PIN:")
	_ = l.LogCancel()
	_ = l.LogBye()
	_ = l.LogError(errors.New("boom"))
	_ = l.LogEnd(time.Minute)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"START", "DIRECTIVE", "FORM_READY", "CANCEL", "BYE", "ERROR", "END"} {
		if !strings.Contains(lines[i], " "+want+" ") {
			t.Errorf("line %d = %q, want type %s", i, lines[i], want)
		}
	}
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	if err := l.LogStart(); err != nil {
		t.Errorf("nil logger returned error: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLogger_WriteError(t *testing.T) {
	l := NewLogger(failingWriter{}, "1")
	err := l.LogBye()
	if err == nil || !strings.Contains(err.Error(), "write audit event") {
		t.Errorf("LogBye() error = %v, want wrapped write error", err)
	}
}
