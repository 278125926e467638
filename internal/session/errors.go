package session

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned by Run when the dialog was dismissed.
	ErrCancelled = errors.New("session: operation cancelled")

	ErrNotAccumulating = errors.New("session: not accepting directives")
	ErrNotAwaiting     = errors.New("session: no passphrase requested")
	ErrAlreadyResolved = errors.New("session: outcome already delivered")
)

// IOError wraps a failure of the underlying input or output stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("session: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
