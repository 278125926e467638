package assuan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CommandKind identifies an inbound directive.
type CommandKind int

// Command kinds, one per wire keyword. The zero value is CmdInvalid so an
// unset Command never reads as a real directive.
const (
	CmdInvalid CommandKind = iota
	CmdReset
	CmdQuit
	CmdGetPin
	CmdBye
	CmdGetInfo
	CmdSetTitle
	CmdComment
	CmdSetTimeout
	CmdSetPrompt
	CmdSetDesc
	CmdSetOk
	CmdSetCancel
	CmdSetNotOk
	CmdSetError
	CmdSetRepeat
	CmdSetQualityBar
	CmdSetQualityBarTT
	CmdSetGenPin
	CmdSetGenPinTT
	CmdSetKeyInfo
	CmdOption
)

// commandKeywords is the dispatch table. Keywords are case-sensitive.
var commandKeywords = map[string]CommandKind{
	"#":                CmdComment,
	"SETTIMEOUT":       CmdSetTimeout,
	"GETPIN":           CmdGetPin,
	"GETINFO":          CmdGetInfo,
	"QUIT":             CmdQuit,
	"BYE":              CmdBye,
	"RESET":            CmdReset,
	"SETTITLE":         CmdSetTitle,
	"SETDESC":          CmdSetDesc,
	"SETPROMPT":        CmdSetPrompt,
	"SETOK":            CmdSetOk,
	"SETCANCEL":        CmdSetCancel,
	"SETNOTOK":         CmdSetNotOk,
	"SETERROR":         CmdSetError,
	"SETREPEAT":        CmdSetRepeat,
	"SETQUALITYBAR":    CmdSetQualityBar,
	"SETQUALITYBAR_TT": CmdSetQualityBarTT,
	"SETGENPIN":        CmdSetGenPin,
	"SETGENPIN_TT":     CmdSetGenPinTT,
	"SETKEYINFO":       CmdSetKeyInfo,
	"OPTION":           CmdOption,
}

// commandNames maps kinds back to their wire keyword.
var commandNames = func() map[CommandKind]string {
	m := make(map[CommandKind]string, len(commandKeywords))
	for name, kind := range commandKeywords {
		m[kind] = name
	}
	return m
}()

// String returns the wire keyword for k.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	if k == CmdInvalid {
		return "INVALID"
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// takesText reports whether the directive carries its remainder as Text.
func (k CommandKind) takesText() bool {
	switch k {
	case CmdGetInfo, CmdSetTitle, CmdComment, CmdSetPrompt, CmdSetDesc,
		CmdSetOk, CmdSetCancel, CmdSetNotOk, CmdSetError,
		CmdSetQualityBarTT, CmdSetGenPinTT, CmdSetKeyInfo:
		return true
	}
	return false
}

// Command is one decoded directive. Only the field relevant to Kind is set:
// Text for payload-carrying directives, Timeout for SETTIMEOUT and Option for
// OPTION. Commands are comparable with ==.
type Command struct {
	Kind    CommandKind
	Text    string
	Timeout time.Duration
	Option  Option
}

// IsTerminal reports whether c ends accumulation (GETPIN or BYE).
func (c Command) IsTerminal() bool {
	return c.Kind == CmdGetPin || c.Kind == CmdBye
}

// String renders c for diagnostics.
func (c Command) String() string {
	switch {
	case c.Kind == CmdSetTimeout:
		return fmt.Sprintf("%s %d", c.Kind, int64(c.Timeout/time.Second))
	case c.Kind == CmdOption:
		return fmt.Sprintf("%s %s", c.Kind, c.Option)
	case c.Kind.takesText():
		return fmt.Sprintf("%s %q", c.Kind, c.Text)
	default:
		return c.Kind.String()
	}
}

// ParseCommand decodes a single line, without its terminator, into a
// Command. Payload text is returned as sent; see Unescape.
func ParseCommand(line string) (Command, error) {
	if line == "" {
		return Command{}, &ParseError{Kind: ParseEmpty}
	}
	if len(line) > MaxLineLength {
		return Command{}, &ParseError{Kind: ParseStringTooLong, Len: len(line)}
	}

	keyword, remainder, _ := strings.Cut(line, " ")
	kind, ok := commandKeywords[keyword]
	if !ok {
		return Command{}, &ParseError{Kind: ParseUnknownCommand, Raw: line}
	}

	switch {
	case kind == CmdSetTimeout:
		d, err := parseSeconds(remainder)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, Timeout: d}, nil
	case kind == CmdOption:
		opt, err := ParseOption(remainder)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, Option: opt}, nil
	case kind.takesText():
		return Command{Kind: kind, Text: remainder}, nil
	default:
		return Command{Kind: kind}, nil
	}
}

// parseSeconds parses a non-negative count of seconds. A single leading '+'
// is allowed.
func parseSeconds(s string) (time.Duration, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil || n > math.MaxInt64/uint64(time.Second) {
		return 0, &ParseError{Kind: ParseInvalidDuration, Raw: s}
	}
	return time.Duration(n) * time.Second, nil
}
