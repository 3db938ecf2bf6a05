package launchagent

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayoisaiah/autoblock/internal/apperr"
	"github.com/ayoisaiah/autoblock/internal/osutil"
)

const launchctl = "launchctl"

var (
	errInstall = &apperr.Error{
		Message: "unable to install launch agent %s",
	}

	errRemove = &apperr.Error{
		Message: "unable to remove launch agent %s",
	}
)

// Runner runs an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		slog.Debug(
			"command failed",
			slog.String("cmd", name),
			slog.Any("args", args),
			slog.String("output", string(out)),
		)

		return err
	}

	return nil
}

// Installer manages agents in a LaunchAgents directory.
type Installer struct {
	Run Runner
	Dir string
}

// NewInstaller returns an Installer for dir that uses launchctl.
func NewInstaller(dir string) *Installer {
	return &Installer{
		Dir: dir,
		Run: execRunner,
	}
}

// Path returns where the agent with label is installed.
func (i *Installer) Path(label string) string {
	return filepath.Join(i.Dir, label+".plist")
}

// Installed reports whether an agent with label exists in the directory.
func (i *Installer) Installed(label string) bool {
	_, err := os.Stat(i.Path(label))
	return err == nil
}

// Install writes p into the directory and loads it, replacing any agent
// with the same label.
func (i *Installer) Install(ctx context.Context, p *Plist) error {
	b, err := p.Render()
	if err != nil {
		return err
	}

	if err = i.Remove(ctx, p.Label); err != nil {
		return err
	}

	err = os.MkdirAll(i.Dir, osutil.DirPermission)
	if err != nil {
		return errInstall.Fmt(p.Label).Wrap(err)
	}

	path := i.Path(p.Label)

	err = os.WriteFile(path, b, osutil.FilePermission)
	if err != nil {
		return errInstall.Fmt(p.Label).Wrap(err)
	}

	err = i.Run(ctx, launchctl, "load", path)
	if err != nil {
		return errInstall.Fmt(p.Label).Wrap(err)
	}

	slog.Info("launch agent installed", slog.String("label", p.Label), slog.String("path", path))

	return nil
}

// Remove unloads the agent with label and deletes its file. Removing an
// agent that is not installed is not an error.
func (i *Installer) Remove(ctx context.Context, label string) error {
	if err := i.Run(ctx, launchctl, "remove", label); err != nil {
		slog.Debug("launchctl remove failed", slog.String("label", label), slog.Any("error", err))
	}

	err := os.Remove(i.Path(label))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errRemove.Fmt(label).Wrap(err)
	}

	return nil
}

// RemoveIfInstalled removes the agent with label only if its file exists,
// and reports whether it did.
func (i *Installer) RemoveIfInstalled(ctx context.Context, label string) (bool, error) {
	if !i.Installed(label) {
		return false, nil
	}

	return true, i.Remove(ctx, label)
}
