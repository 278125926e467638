// Package audit writes a transcript of a pinentry session.
// Log entries follow a key=value format suitable for parsing and analysis.
// Data replies are recorded through assuan.Response.String, so the secret
// never reaches the transcript.
package audit

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xdg/pinwarden/internal/assuan"
)

// EventType represents the type of transcript entry.
type EventType string

// Event types for a pinentry session.
const (
	EventStart     EventType = "START"
	EventDirective EventType = "DIRECTIVE"
	EventReply     EventType = "REPLY"
	EventFormReady EventType = "FORM_READY"
	EventBye       EventType = "BYE"
	EventCancel    EventType = "CANCEL"
	EventError     EventType = "ERROR"
	EventEnd       EventType = "END"
)

// Event represents one transcript entry.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Type is the event type (DIRECTIVE, REPLY, etc.)
	Type EventType

	// Session identifies the pinentry process.
	Session string

	// Directive is the decoded directive (for DIRECTIVE events).
	Directive string

	// Reply is the redacted reply line (for REPLY events).
	Reply string

	// Prompt is the prompt text shown (for FORM_READY events).
	Prompt string

	// Reason is the failure text (for ERROR events).
	Reason string

	// Duration is the session length (for END events).
	Duration time.Duration
}

// Format returns the log entry as a formatted string.
// Format: 2024-01-15T14:32:05Z PINENTRY DIRECTIVE session=4242 cmd="SETPROMPT \"PIN:\""
func (e *Event) Format() string {
	var b strings.Builder

	b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString(" PINENTRY ")
	b.WriteString(string(e.Type))
	b.WriteString(" session=")
	b.WriteString(e.Session)

	switch e.Type {
	case EventDirective:
		writeOptionalField(&b, "cmd", e.Directive)
	case EventReply:
		writeOptionalField(&b, "reply", e.Reply)
	case EventFormReady:
		writeOptionalField(&b, "prompt", e.Prompt)
	case EventError:
		writeOptionalField(&b, "reason", e.Reason)
	case EventEnd:
		b.WriteString(" duration=")
		b.WriteString(formatDuration(e.Duration))
	}

	return b.String()
}

// writeOptionalField appends " key=quoted_value" to the builder if value is non-empty.
func writeOptionalField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(quoteValue(value))
}

// quoteValue returns a quoted string value.
func quoteValue(s string) string {
	return fmt.Sprintf("%q", s)
}

// formatDuration formats a duration as a human-readable string (e.g., "2.3s", "1m30s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Logger writes transcript events to an io.Writer. A nil *Logger discards
// everything, so callers never need to check whether a transcript is on.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	session string
	now     func() time.Time
}

// NewLogger creates a transcript logger for one session.
func NewLogger(w io.Writer, session string) *Logger {
	return &Logger{w: w, session: session, now: time.Now}
}

// Log writes an event to the transcript.
func (l *Logger) Log(e *Event) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	if e.Session == "" {
		e.Session = l.session
	}

	line := e.Format() + "\n"
	_, err := l.w.Write([]byte(line))
	if err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// LogStart logs a START event.
func (l *Logger) LogStart() error {
	return l.Log(&Event{Type: EventStart})
}

// LogDirective logs a DIRECTIVE event.
func (l *Logger) LogDirective(cmd assuan.Command) error {
	return l.Log(&Event{Type: EventDirective, Directive: cmd.String()})
}

// LogReply logs a REPLY event. Data payloads are redacted.
func (l *Logger) LogReply(r assuan.Response) error {
	return l.Log(&Event{Type: EventReply, Reply: r.String()})
}

// LogFormReady logs a FORM_READY event.
func (l *Logger) LogFormReady(prompt string) error {
	return l.Log(&Event{Type: EventFormReady, Prompt: prompt})
}

// LogBye logs a BYE event.
func (l *Logger) LogBye() error {
	return l.Log(&Event{Type: EventBye})
}

// LogCancel logs a CANCEL event.
func (l *Logger) LogCancel() error {
	return l.Log(&Event{Type: EventCancel})
}

// LogError logs an ERROR event.
func (l *Logger) LogError(err error) error {
	return l.Log(&Event{Type: EventError, Reason: err.Error()})
}

// LogEnd logs an END event.
func (l *Logger) LogEnd(duration time.Duration) error {
	return l.Log(&Event{Type: EventEnd, Duration: duration})
}
