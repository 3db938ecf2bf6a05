package launchagent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	fail map[string]error
	cmds []string
}

func (r *recorder) run(_ context.Context, name string, args ...string) error {
	r.cmds = append(r.cmds, name+" "+strings.Join(args, " "))

	if len(args) > 0 {
		return r.fail[args[0]]
	}

	return nil
}

func newTestInstaller(t *testing.T, fail map[string]error) (*Installer, *recorder) {
	t.Helper()

	r := &recorder{fail: fail}

	return &Installer{
		Dir: filepath.Join(t.TempDir(), "LaunchAgents"),
		Run: r.run,
	}, r
}

func TestInstall(t *testing.T) {
	i, r := newTestInstaller(t, map[string]error{
		"remove": errors.New("Could not find specified service"),
	})

	p := &Plist{
		Label:     MainLabel,
		Program:   "/usr/local/bin/autoblock",
		Args:      []string{"execute"},
		Interval:  30 * time.Second,
		RunAtLoad: true,
	}

	require.NoError(t, i.Install(context.Background(), p))

	path := i.Path(MainLabel)
	assert.True(t, i.Installed(MainLabel))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	want, err := p.Render()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	assert.Equal(t, []string{
		"launchctl remove " + MainLabel,
		"launchctl load " + path,
	}, r.cmds)
}

func TestInstallLoadFailure(t *testing.T) {
	i, _ := newTestInstaller(t, map[string]error{
		"load": errors.New("exit status 5"),
	})

	p := &Plist{
		Label:    RearmLabel,
		Program:  "autoblock",
		Calendar: nil,
		Interval: time.Minute,
	}

	assert.ErrorIs(t, i.Install(context.Background(), p), errInstall)
}

func TestInstallInvalidPlist(t *testing.T) {
	i, r := newTestInstaller(t, nil)

	err := i.Install(context.Background(), &Plist{Label: MainLabel})
	assert.ErrorIs(t, err, errInvalidPlist)
	assert.Empty(t, r.cmds)
	assert.False(t, i.Installed(MainLabel))
}

func TestRemove(t *testing.T) {
	i, r := newTestInstaller(t, nil)

	require.NoError(t, os.MkdirAll(i.Dir, 0o755))
	require.NoError(t, os.WriteFile(i.Path(RearmLabel), []byte("<plist/>"), 0o644))

	require.NoError(t, i.Remove(context.Background(), RearmLabel))
	assert.False(t, i.Installed(RearmLabel))

	require.NoError(t, i.Remove(context.Background(), RearmLabel), "removing twice")

	assert.Equal(t, []string{
		"launchctl remove " + RearmLabel,
		"launchctl remove " + RearmLabel,
	}, r.cmds)
}

func TestRemoveIfInstalled(t *testing.T) {
	i, r := newTestInstaller(t, nil)

	removed, err := i.RemoveIfInstalled(context.Background(), RearmLabel)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, r.cmds, "launchctl must not run for a missing agent")

	require.NoError(t, os.MkdirAll(i.Dir, 0o755))
	require.NoError(t, os.WriteFile(i.Path(RearmLabel), []byte("<plist/>"), 0o644))

	removed, err = i.RemoveIfInstalled(context.Background(), RearmLabel)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, i.Installed(RearmLabel))
	assert.Equal(t, []string{"launchctl remove " + RearmLabel}, r.cmds)
}
