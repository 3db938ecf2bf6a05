package blocker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Preferences is the tool's application preference store.
type Preferences interface {
	// SetInt stores value under key.
	SetInt(ctx context.Context, key string, value int) error
	// Synchronize makes pending writes visible to the tool.
	Synchronize(ctx context.Context) error
}

// Defaults writes preferences through the macOS defaults(1) command.
type Defaults struct {
	pending map[string]int
	Domain  string
	mu      sync.Mutex
}

// NewDefaults returns a Defaults for the given preference domain.
func NewDefaults(domain string) *Defaults {
	return &Defaults{
		Domain:  domain,
		pending: make(map[string]int),
	}
}

func (d *Defaults) SetInt(ctx context.Context, key string, value int) error {
	cmd := exec.CommandContext(
		ctx,
		"defaults",
		"write",
		d.Domain,
		key,
		"-int",
		strconv.Itoa(value),
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return errPreferences.Fmt(key).Wrap(fmt.Errorf("%w: %s", err, bytes.TrimSpace(out)))
	}

	d.mu.Lock()
	d.pending[key] = value
	d.mu.Unlock()

	return nil
}

// Synchronize reads every pending key back. Reading through cfprefsd
// flushes the write, and the comparison catches a write that was lost.
func (d *Defaults) Synchronize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, want := range d.pending {
		out, err := exec.CommandContext(ctx, "defaults", "read", d.Domain, key).Output()
		if err != nil {
			return errPreferences.Fmt(key).Wrap(err)
		}

		got, err := strconv.Atoi(strings.TrimSpace(string(out)))
		if err != nil || got != want {
			return errPreferences.Fmt(key).Wrap(
				fmt.Errorf("read back %q, want %d", bytes.TrimSpace(out), want),
			)
		}

		delete(d.pending, key)
	}

	return nil
}
