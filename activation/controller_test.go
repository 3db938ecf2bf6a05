package activation

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/autoblock/blocker"
	"github.com/ayoisaiah/autoblock/credential"
	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

var now = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)

type fakeTool struct {
	stateErr error
	// script is consumed one outcome per Start; the last entry repeats.
	script  []blocker.Outcome
	starts  []int
	state   blocker.State
	// onStart runs at the beginning of every Start.
	onStart func()
	mu      sync.Mutex
	blockOn int
}

func (f *fakeTool) CurrentState(context.Context) (blocker.State, error) {
	return f.state, f.stateErr
}

func (f *fakeTool) Start(ctx context.Context, minutes int) blocker.Outcome {
	f.mu.Lock()
	f.starts = append(f.starts, minutes)
	n := len(f.starts)
	f.mu.Unlock()

	if f.onStart != nil {
		f.onStart()
	}

	if n == f.blockOn {
		<-ctx.Done()

		return blocker.Outcome{Kind: blocker.NoResponse, Minutes: minutes, Err: ctx.Err()}
	}

	i := min(n-1, len(f.script)-1)
	o := f.script[i]
	o.Minutes = minutes

	return o
}

func (f *fakeTool) Starts() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]int(nil), f.starts...)
}

func fixedClock() time.Time {
	return now
}

func newController(t *testing.T, tool Tool, opts ...Option) *Controller {
	t.Helper()

	lockPath := filepath.Join(t.TempDir(), "autoblock.lock")

	opts = append([]Option{WithClock(fixedClock)}, opts...)

	return New(tool, lockPath, opts...)
}

func TestEnsureActiveUntilRoundsUp(t *testing.T) {
	tool := &fakeTool{
		script: []blocker.Outcome{{Kind: blocker.Started}},
	}

	c := newController(t, tool)

	err := c.EnsureActiveUntil(context.Background(), now.Add(119*time.Second))
	require.NoError(t, err)

	assert.Equal(t, []int{2}, tool.Starts())
}

func TestEnsureActiveUntilAlreadyActive(t *testing.T) {
	tool := &fakeTool{
		state: blocker.State{Active: true, Until: now.Add(time.Hour)},
	}

	c := newController(t, tool)

	err := c.EnsureActiveUntil(context.Background(), now.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Empty(t, tool.Starts())
}

func TestEnsureActiveUntilRetriesTransientOutcomes(t *testing.T) {
	tool := &fakeTool{
		script: []blocker.Outcome{
			{Kind: blocker.UserCancelled},
			{Kind: blocker.UserCancelled},
			{Kind: blocker.NoResponse},
			{Kind: blocker.Started},
		},
	}

	var seen []blocker.Kind

	c := newController(t, tool, WithObserver(func(o blocker.Outcome) {
		seen = append(seen, o.Kind)
	}))

	err := c.EnsureActiveUntil(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []int{60, 60, 60, 60}, tool.Starts())
	assert.Equal(t, []blocker.Kind{
		blocker.UserCancelled,
		blocker.UserCancelled,
		blocker.NoResponse,
		blocker.Started,
	}, seen)
}

func TestEnsureActiveUntilTerminalFailure(t *testing.T) {
	failure := errors.New("exit status 1")

	tests := []struct {
		name string
		kind blocker.Kind
		err  error
		want error
	}{
		{
			name: "tool failure",
			kind: blocker.ToolFailure,
			err:  failure,
			want: failure,
		},
		{
			name: "transport failure",
			kind: blocker.TransportFailure,
			err:  failure,
			want: failure,
		},
		{
			name: "failure without error",
			kind: blocker.ToolFailure,
			want: blocker.ErrAttemptFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tool := &fakeTool{
				script: []blocker.Outcome{
					{Kind: blocker.UserCancelled},
					{Kind: tc.kind, Err: tc.err},
				},
			}

			c := newController(t, tool)

			err := c.EnsureActiveUntil(context.Background(), now.Add(time.Hour))
			assert.ErrorIs(t, err, tc.want)
			assert.Len(t, tool.Starts(), 2)
		})
	}
}

func TestEnsureActiveUntilProbeError(t *testing.T) {
	tool := &fakeTool{
		stateErr: blocker.ErrMalformedOutput.Fmt("missing key"),
	}

	c := newController(t, tool)

	err := c.EnsureActiveUntil(context.Background(), now.Add(time.Hour))
	assert.ErrorIs(t, err, blocker.ErrMalformedOutput)
	assert.Empty(t, tool.Starts())
}

func TestEnsureActiveUntilTargetPassed(t *testing.T) {
	tool := &fakeTool{
		script: []blocker.Outcome{{Kind: blocker.Started}},
	}

	c := newController(t, tool)

	err := c.EnsureActiveUntil(context.Background(), now.Add(-time.Minute))
	require.ErrorIs(t, err, ErrTargetPassed)

	assert.Empty(t, tool.Starts())
}

func TestEnsureActiveUntilTargetPassesWhileCancelled(t *testing.T) {
	var (
		mu    sync.Mutex
		clock = now
	)

	tool := &fakeTool{
		script: []blocker.Outcome{{Kind: blocker.UserCancelled}},
		onStart: func() {
			mu.Lock()
			clock = clock.Add(time.Hour)
			mu.Unlock()
		},
	}

	c := New(
		tool,
		filepath.Join(t.TempDir(), "autoblock.lock"),
		WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()

			return clock
		}),
	)

	err := c.EnsureActiveUntil(context.Background(), now.Add(30*time.Minute))
	require.ErrorIs(t, err, ErrTargetPassed)

	assert.Equal(t, []int{30}, tool.Starts())
}

func TestEnsureActiveUntilAttemptTimeout(t *testing.T) {
	tool := &fakeTool{
		blockOn: 1,
		script:  []blocker.Outcome{{Kind: blocker.Started}},
	}

	var seen []blocker.Kind

	c := newController(
		t,
		tool,
		WithAttemptTimeout(50*time.Millisecond),
		WithObserver(func(o blocker.Outcome) {
			seen = append(seen, o.Kind)
		}),
	)

	err := c.EnsureActiveUntil(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []blocker.Kind{blocker.NoResponse, blocker.Started}, seen)
}

func TestEnsureActiveUntilCancelled(t *testing.T) {
	tool := &fakeTool{
		script: []blocker.Outcome{{Kind: blocker.UserCancelled}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count int

	c := newController(t, tool, WithObserver(func(blocker.Outcome) {
		count++
		if count == 3 {
			cancel()
		}
	}))

	err := c.EnsureActiveUntil(ctx, now.Add(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, len(tool.Starts()), 3)
}

func TestEnsureActiveUntilArmsCredential(t *testing.T) {
	var creds credential.State

	tool := &fakeTool{
		script: []blocker.Outcome{{Kind: blocker.Started}},
	}

	var armed bool

	c := newController(
		t,
		tool,
		WithCredential(&creds, "hunter2"),
		WithObserver(func(blocker.Outcome) {
			_, armed = creds.Pending()
		}),
	)

	err := c.EnsureActiveUntil(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, armed, "credential must be armed during attempts")

	_, ok := creds.Pending()
	assert.False(t, ok, "credential must be cleared afterwards")
	assert.False(t, creds.Rearm(), "secret must be forgotten afterwards")
}

type recordingConsumer struct {
	got []blocker.Kind
}

func (r *recordingConsumer) Run(ctx context.Context, outcomes <-chan blocker.Outcome) error {
	for o := range outcomes {
		r.got = append(r.got, o.Kind)
	}

	return nil
}

func TestEnsureActiveUntilConsumer(t *testing.T) {
	tool := &fakeTool{
		script: []blocker.Outcome{
			{Kind: blocker.UserCancelled},
			{Kind: blocker.Started},
		},
	}

	consumer := &recordingConsumer{}

	c := newController(t, tool, WithConsumer(consumer))

	err := c.EnsureActiveUntil(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []blocker.Kind{blocker.UserCancelled, blocker.Started}, consumer.got)
}

func TestDrain(t *testing.T) {
	t.Run("closed channel", func(t *testing.T) {
		ch := make(chan blocker.Outcome)
		close(ch)

		assert.NoError(t, Drain(context.Background(), ch))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, Drain(ctx, make(chan blocker.Outcome)), context.Canceled)
	})
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name   string
		target time.Time
		want   time.Duration
	}{
		{
			name:   "same day",
			target: now.Add(90 * time.Minute),
			want:   90 * time.Minute,
		},
		{
			name:   "across midnight",
			target: time.Date(2024, time.March, 5, 1, 0, 0, 0, time.UTC),
			want:   15 * time.Hour,
		},
		{
			name:   "more than a day away",
			target: now.Add(30 * time.Hour),
			want:   30 * time.Hour,
		},
		{
			name:   "sub-second",
			target: now.Add(500 * time.Millisecond),
			want:   500 * time.Millisecond,
		},
		{
			name:   "passed",
			target: now.Add(-time.Second),
			want:   -time.Second,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Remaining(now, tc.target))
		})
	}
}

func TestRemainingKeepsFraction(t *testing.T) {
	from := now.Add(100 * time.Millisecond)
	target := now.Add(5*time.Minute + 900*time.Millisecond)

	d := Remaining(from, target)

	assert.Equal(t, 5*time.Minute+800*time.Millisecond, d)
	assert.Equal(t, 6, timeutil.CeilMinutes(d))
}
