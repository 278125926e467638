package assuan

import (
	"errors"
	"fmt"
)

// MaxLineLength is the largest accepted directive, in bytes, excluding the
// line terminator.
const MaxLineLength = 1000

// Sentinels wrapped by ParseError and DecodingError, for errors.Is.
var (
	ErrEmpty           = errors.New("assuan: empty line")
	ErrStringTooLong   = errors.New("assuan: line too long")
	ErrUnknownCommand  = errors.New("assuan: unknown command")
	ErrUnknownOption   = errors.New("assuan: unknown option")
	ErrInvalidDuration = errors.New("assuan: invalid duration")
	ErrDecoding        = errors.New("assuan: invalid percent escape")
)

// ParseErrorKind classifies a directive that could not be decoded.
type ParseErrorKind int

// Parse error kinds. Each one unwraps to the sentinel of the same name.
const (
	ParseEmpty ParseErrorKind = iota
	ParseStringTooLong
	ParseUnknownCommand
	ParseUnknownOption
	ParseInvalidDuration
)

// ParseError reports a directive that could not be decoded. Raw carries the
// offending text (the full line for unknown commands, the option text for
// unknown options, the payload for durations). Len is only set for
// ParseStringTooLong.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
	Len  int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseEmpty:
		return "empty string"
	case ParseStringTooLong:
		return fmt.Sprintf("string too long, limit is %d bytes, received a command of size %d", MaxLineLength, e.Len)
	case ParseUnknownCommand:
		return fmt.Sprintf("unknown command with name %q", e.Raw)
	case ParseUnknownOption:
		return fmt.Sprintf("unknown OPTION named %q", e.Raw)
	case ParseInvalidDuration:
		return fmt.Sprintf("invalid duration, error converting %q", e.Raw)
	default:
		return "unknown parse error"
	}
}

// Unwrap returns the sentinel matching e.Kind so errors.Is works.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case ParseEmpty:
		return ErrEmpty
	case ParseStringTooLong:
		return ErrStringTooLong
	case ParseUnknownCommand:
		return ErrUnknownCommand
	case ParseUnknownOption:
		return ErrUnknownOption
	case ParseInvalidDuration:
		return ErrInvalidDuration
	default:
		return nil
	}
}

// DecodingError reports the byte offset of the first malformed escape.
type DecodingError struct {
	Offset int
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding error, invalid hex representation at offset %d", e.Offset)
}

func (e *DecodingError) Unwrap() error {
	return ErrDecoding
}
