// Package blocker drives the external blocking tool: it reads the tool's
// current state and starts fixed-length blocks.
package blocker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultPath is where SelfControl installs its command-line binary.
	DefaultPath = "/Applications/SelfControl.app/Contents/MacOS/org.eyebeam.SelfControl"
	// PreferenceDomain is SelfControl's preference domain.
	PreferenceDomain = "org.eyebeam.SelfControl"
	// KeyBlockDuration holds the length of the next block in minutes.
	KeyBlockDuration = "BlockDuration"
)

const (
	cmdStart         = "start"
	cmdPrintSettings = "print-settings"

	markerSuccess   = "INFO: Block successfully added."
	markerCancelled = "Authorization cancelled"
)

// waitDelay bounds how long a killed tool may keep its output pipes open.
const waitDelay = time.Second

// Tool runs the blocking tool's command-line interface.
type Tool struct {
	Prefs    Preferences
	Location *time.Location
	Path     string
}

// New returns a Tool for the binary at path.
func New(path string, prefs Preferences) *Tool {
	return &Tool{
		Path:     path,
		Prefs:    prefs,
		Location: time.Local,
	}
}

// run executes the tool with args and returns its standard error, which
// is where the tool reports results. A non-zero exit status is not an
// error here: callers classify the text.
func (t *Tool) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, t.Path, args...)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", ErrTransport.Fmt(args[0]).Wrap(err)
	}

	if !utf8.Valid(stderr.Bytes()) {
		return "", ErrTransport.Fmt(args[0]).Wrap(errors.New("output is not valid UTF-8"))
	}

	return stderr.String(), nil
}

// CurrentState reports whether a block is running and when it ends.
func (t *Tool) CurrentState(ctx context.Context) (State, error) {
	out, err := t.run(ctx, cmdPrintSettings)
	if err != nil {
		if ctx.Err() != nil {
			return State{}, ErrTransport.Fmt(cmdPrintSettings).Wrap(err)
		}

		return State{}, err
	}

	settings, err := ParseSettings(out)
	if err != nil {
		return State{}, err
	}

	loc := t.Location
	if loc == nil {
		loc = time.Local
	}

	return StateFromSettings(settings, loc)
}

// Start sets the block duration to minutes and starts a block. The tool
// may show an authorization prompt; Start returns once the tool exits or
// ctx is done, whichever happens first.
func (t *Tool) Start(ctx context.Context, minutes int) Outcome {
	if err := t.Prefs.SetInt(ctx, KeyBlockDuration, minutes); err != nil {
		return Outcome{Kind: TransportFailure, Err: err, Minutes: minutes}
	}

	if err := t.Prefs.Synchronize(ctx); err != nil {
		return Outcome{Kind: TransportFailure, Err: err, Minutes: minutes}
	}

	out, err := t.run(ctx, cmdStart)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{Kind: NoResponse, Err: ctx.Err(), Minutes: minutes}
		}

		return Outcome{Kind: TransportFailure, Err: err, Minutes: minutes}
	}

	o := ClassifyStart(out)
	o.Minutes = minutes

	slog.Debug("start command finished", slog.String("outcome", o.Kind.String()))

	return o
}

// ClassifyStart maps the start command's standard error to an Outcome.
// Anything without the success marker is a failure, whatever the exit
// status was.
func ClassifyStart(stderr string) Outcome {
	switch {
	case strings.Contains(stderr, markerCancelled):
		return Outcome{Kind: UserCancelled}
	case strings.Contains(stderr, markerSuccess):
		return Outcome{Kind: Started}
	}

	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = "no output"
	}

	return Outcome{Kind: ToolFailure, Err: ErrToolFailure.Fmt(quote(msg))}
}
