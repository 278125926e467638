package dialog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xdg/pinwarden/internal/clog"
	"github.com/xdg/pinwarden/internal/session"
)

// Session is the part of *session.Session that Serve drives.
type Session interface {
	Events() <-chan session.Event
	Submit(passphrase string) error
	Cancel() error
}

type serveConfig struct {
	defaultTimeout time.Duration
}

// ServeOption configures Serve.
type ServeOption func(*serveConfig)

// WithDefaultTimeout bounds dialogs for which the caller sent no
// SETTIMEOUT. Zero means no limit.
func WithDefaultTimeout(d time.Duration) ServeOption {
	return func(c *serveConfig) { c.defaultTimeout = d }
}

// Serve consumes s.Events until the channel is closed or a Bye arrives.
// Each FormReady is shown with d and resolved with Submit, or with Cancel
// when the user dismisses the dialog or its timeout expires. A dialog that
// fails outright also cancels the session, and its error is returned.
func Serve(ctx context.Context, s Session, d Dialog, opts ...ServeOption) error {
	var cfg serveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return nil
			}
			switch ev.Kind {
			case session.EventBye:
				clog.Debug("dialog: caller said bye")
				return nil
			case session.EventFormReady:
				if err := answer(ctx, s, d, ev, cfg); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func answer(ctx context.Context, s Session, d Dialog, ev session.Event, cfg serveConfig) error {
	timeout := ev.Hints.Timeout
	if timeout == 0 {
		timeout = cfg.defaultTimeout
	}
	askCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		askCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	passphrase, err := d.Ask(askCtx, ev.Form, ev.Hints)
	switch {
	case err == nil:
		return s.Submit(passphrase)
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, ErrCancelled):
		clog.Info("dialog: cancelled by user")
		return s.Cancel()
	case errors.Is(err, context.DeadlineExceeded):
		clog.Info("dialog: timed out after %s", timeout)
		return s.Cancel()
	}

	clog.Error("dialog: %v", err)
	if cerr := s.Cancel(); cerr != nil {
		clog.Warn("dialog: cancel after failure: %v", cerr)
	}
	return fmt.Errorf("dialog: %w", err)
}
