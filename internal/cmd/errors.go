package cmd

import (
	"errors"
	"fmt"

	"github.com/xdg/pinwarden/internal/assuan"
	"github.com/xdg/pinwarden/internal/session"
)

// Exit codes follow sysexits.h where one fits.
const (
	ExitCancelled = 1
	ExitDataErr   = 65
	ExitIOErr     = 74
	ExitConfig    = 78
)

// ExitCodeError carries the process exit status for an error.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError wraps err with an exit code. err may be nil.
func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Err: err}
}

func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error { return e.Err }

// withExitCode maps a session error to its exit status. Errors it does not
// recognise are returned unchanged and exit with status 1.
func withExitCode(err error) error {
	var parseErr *assuan.ParseError
	var ioErr *session.IOError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrCancelled):
		return NewExitCodeError(ExitCancelled, err)
	case errors.As(err, &parseErr), errors.Is(err, assuan.ErrDecoding):
		return NewExitCodeError(ExitDataErr, err)
	case errors.As(err, &ioErr):
		return NewExitCodeError(ExitIOErr, err)
	}
	return err
}

// silent reports whether err needs no message on stderr.
func silent(err error) bool {
	return errors.Is(err, session.ErrCancelled)
}
