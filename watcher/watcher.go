// Package watcher answers the blocking tool's authorization prompt by
// typing the stored password when the prompt gains focus.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/autoblock/blocker"
	"github.com/ayoisaiah/autoblock/credential"
)

const (
	// DefaultHelperApp is the process that shows macOS authorization
	// prompts.
	DefaultHelperApp = "SecurityAgent"
	// DefaultSettleDelay is how long the prompt gets to become ready for
	// input after it is focused.
	DefaultSettleDelay = 250 * time.Millisecond
)

// FocusSource reports the name of the application that gains focus. The
// channel closes when ctx is done or the source fails; subscribing again
// restarts it.
type FocusSource interface {
	Subscribe(ctx context.Context) (<-chan string, error)
}

// Typist sends keystrokes to the focused window.
type Typist interface {
	Type(ctx context.Context, text string) error
	Submit(ctx context.Context) error
}

// Watcher injects the armed credential into the authorization prompt while
// consuming the outcomes of an activation.
type Watcher struct {
	Source      FocusSource
	Typist      Typist
	Creds       *credential.State
	HelperApp   string
	SettleDelay time.Duration
}

// New returns a Watcher using the default helper app and settle delay.
func New(source FocusSource, typist Typist, creds *credential.State) *Watcher {
	return &Watcher{
		Source:      source,
		Typist:      typist,
		Creds:       creds,
		HelperApp:   DefaultHelperApp,
		SettleDelay: DefaultSettleDelay,
	}
}

// Run handles focus events and outcomes until the activation settles.
// Started and a closed outcome channel return nil, and a terminal outcome
// returns its failure. A transient outcome re-arms the credential for the
// next prompt.
func (w *Watcher) Run(ctx context.Context, outcomes <-chan blocker.Outcome) error {
	focus := w.subscribe(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case app, ok := <-focus:
			if !ok {
				focus = w.subscribe(ctx)
				continue
			}

			w.handleFocus(ctx, app)

		case o, ok := <-outcomes:
			if !ok {
				return ctx.Err()
			}

			switch {
			case o.Kind == blocker.Started:
				w.Creds.Clear()
				return nil
			case o.Kind.Transient():
				armed := w.Creds.Rearm()
				slog.Debug(
					"credential re-armed",
					slog.String("outcome", o.Kind.String()),
					slog.Bool("armed", armed),
				)
			default:
				return o.Failure()
			}
		}
	}
}

// subscribe returns a nil channel if focus events are unavailable, which
// leaves Run consuming outcomes only.
func (w *Watcher) subscribe(ctx context.Context) <-chan string {
	if ctx.Err() != nil {
		return nil
	}

	focus, err := w.Source.Subscribe(ctx)
	if err != nil {
		slog.Warn("password auto-fill disabled", slog.Any("error", err))
		return nil
	}

	return focus
}

func (w *Watcher) handleFocus(ctx context.Context, app string) {
	if app != w.HelperApp {
		return
	}

	secret, ok := w.Creds.Pending()
	if !ok {
		return
	}

	select {
	case <-time.After(w.SettleDelay):
	case <-ctx.Done():
		return
	}

	if err := w.inject(ctx, secret); err != nil {
		slog.Warn("password injection failed", slog.String("app", app), slog.Any("error", err))
		return
	}

	w.Creds.Disarm()

	slog.Info("password injected", slog.String("app", app))
}

func (w *Watcher) inject(ctx context.Context, secret string) error {
	if err := w.Typist.Type(ctx, secret); err != nil {
		return err
	}

	return w.Typist.Submit(ctx)
}
