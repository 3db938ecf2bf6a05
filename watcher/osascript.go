package watcher

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	osascript = "osascript"

	// DefaultPollInterval is how often the frontmost application is read.
	DefaultPollInterval = 250 * time.Millisecond

	frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`
	returnKeyScript = `tell application "System Events" to key code 36`
)

// Frontmost polls the name of the frontmost application through
// osascript and reports each change.
type Frontmost struct {
	Path     string
	Interval time.Duration
}

// NewFrontmost returns a Frontmost using the system osascript.
func NewFrontmost() *Frontmost {
	return &Frontmost{
		Path:     osascript,
		Interval: DefaultPollInterval,
	}
}

func (f *Frontmost) Subscribe(ctx context.Context) (<-chan string, error) {
	path, err := exec.LookPath(f.Path)
	if err != nil {
		return nil, ErrFocusUnavailable.Wrap(err)
	}

	interval := f.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ch := make(chan string)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last string

		for {
			name, err := runScript(ctx, path, frontmostScript)
			if err != nil {
				slog.Debug("reading frontmost application failed", slog.Any("error", err))
			} else if name != last {
				last = name

				select {
				case ch <- name:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return ch, nil
}

// Keystrokes types into the focused window through osascript. Scripts are
// passed on standard input so typed text never shows up in process
// arguments.
type Keystrokes struct {
	Path string
}

// NewKeystrokes returns a Keystrokes using the system osascript.
func NewKeystrokes() *Keystrokes {
	return &Keystrokes{Path: osascript}
}

func (k *Keystrokes) Type(ctx context.Context, text string) error {
	_, err := runScript(ctx, k.Path, keystrokeScript(text))
	return err
}

func (k *Keystrokes) Submit(ctx context.Context) error {
	_, err := runScript(ctx, k.Path, returnKeyScript)
	return err
}

// keystrokeScript returns an AppleScript that types text literally.
func keystrokeScript(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)

	return `tell application "System Events" to keystroke "` + r.Replace(text) + `"`
}

// runScript runs an AppleScript read from standard input and returns its
// trimmed standard output.
func runScript(ctx context.Context, path, script string) (string, error) {
	cmd := exec.CommandContext(ctx, path, "-")
	cmd.Stdin = strings.NewReader(script)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	// stderr is discarded since osascript may quote the failing script.
	if err := cmd.Run(); err != nil {
		return "", errScript.Fmt(path).Wrap(err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
