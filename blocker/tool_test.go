package blocker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/autoblock/internal/osutil"
)

type fakePrefs struct {
	values  map[string]int
	setErr  error
	syncErr error
	synced  int
}

func (f *fakePrefs) SetInt(_ context.Context, key string, value int) error {
	if f.setErr != nil {
		return f.setErr
	}

	if f.values == nil {
		f.values = make(map[string]int)
	}

	f.values[key] = value

	return nil
}

func (f *fakePrefs) Synchronize(context.Context) error {
	f.synced++
	return f.syncErr
}

// fakeTool writes a shell script standing in for the tool binary.
func fakeTool(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == osutil.Windows {
		t.Skip("shell scripts are not executable on Windows")
	}

	path := filepath.Join(t.TempDir(), "selfcontrol")

	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755)
	require.NoError(t, err)

	return path
}

func TestClassifyStart(t *testing.T) {
	testCases := []struct {
		Stderr string
		Want   Kind
	}{
		{Stderr: "INFO: Block successfully added.\n", Want: Started},
		{Stderr: "ERROR: Authorization cancelled\n", Want: UserCancelled},
		{Stderr: "", Want: ToolFailure},
		{Stderr: "ERROR: Blocklist is empty\n", Want: ToolFailure},
	}

	for _, tc := range testCases {
		got := ClassifyStart(tc.Stderr)
		assert.Equal(t, tc.Want, got.Kind, tc.Stderr)

		if tc.Want == ToolFailure {
			assert.ErrorIs(t, got.Err, ErrToolFailure)
		}
	}
}

func TestStartSuccess(t *testing.T) {
	path := fakeTool(t, `[ "$1" = start ] && echo "INFO: Block successfully added." >&2`)
	prefs := &fakePrefs{}

	got := New(path, prefs).Start(context.Background(), 42)

	assert.Equal(t, Started, got.Kind)
	assert.Equal(t, 42, got.Minutes)
	assert.Equal(t, 42, prefs.values[KeyBlockDuration])
	assert.Equal(t, 1, prefs.synced)
}

func TestStartIgnoresZeroExitWithoutMarker(t *testing.T) {
	path := fakeTool(t, `echo "something else" >&2; exit 0`)

	got := New(path, &fakePrefs{}).Start(context.Background(), 1)

	assert.Equal(t, ToolFailure, got.Kind)
}

func TestStartUserCancelled(t *testing.T) {
	path := fakeTool(t, `echo "Authorization cancelled" >&2; exit 1`)

	got := New(path, &fakePrefs{}).Start(context.Background(), 1)

	assert.Equal(t, UserCancelled, got.Kind)
}

func TestStartTimesOut(t *testing.T) {
	path := fakeTool(t, `exec sleep 10`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	begin := time.Now()
	got := New(path, &fakePrefs{}).Start(ctx, 1)

	assert.Equal(t, NoResponse, got.Kind)
	assert.Less(t, time.Since(begin), 5*time.Second)
}

func TestStartMissingBinary(t *testing.T) {
	got := New(filepath.Join(t.TempDir(), "missing"), &fakePrefs{}).Start(context.Background(), 1)

	assert.Equal(t, TransportFailure, got.Kind)
	assert.ErrorIs(t, got.Err, ErrTransport)
}

func TestStartPreferenceFailure(t *testing.T) {
	path := fakeTool(t, `echo "INFO: Block successfully added." >&2`)
	prefs := &fakePrefs{syncErr: errors.New("cfprefsd unavailable")}

	got := New(path, prefs).Start(context.Background(), 1)

	assert.Equal(t, TransportFailure, got.Kind)
}

func TestCurrentState(t *testing.T) {
	path := fakeTool(t, `[ "$1" = print-settings ] && cat >&2 <<'EOF'
{
    BlockEndDate = "2022-12-30 22:25:27 +0000";
    BlockIsRunning = 1;
}
EOF`)

	tool := New(path, &fakePrefs{})
	tool.Location = time.UTC

	got, err := tool.CurrentState(context.Background())
	require.NoError(t, err)

	assert.True(t, got.Active)
	assert.Equal(t, "active until 22:25:27", got.String())
}

func TestCurrentStateMissingRunningKey(t *testing.T) {
	path := fakeTool(t, `echo "{ BlockDuration = 5; }" >&2`)

	_, err := New(path, &fakePrefs{}).CurrentState(context.Background())

	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestCurrentStateInvalidUTF8(t *testing.T) {
	path := fakeTool(t, `printf '{ BlockIsRunning = \377; }' >&2`)

	_, err := New(path, &fakePrefs{}).CurrentState(context.Background())

	assert.ErrorIs(t, err, ErrTransport)
}
