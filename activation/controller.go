// Package activation keeps the blocking tool active until a target time,
// retrying the start command through dismissed authorization prompts.
package activation

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/autoblock/blocker"
	"github.com/ayoisaiah/autoblock/credential"
	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

const DefaultAttemptTimeout = 5 * time.Second

// Tool is the part of the blocking tool the controller drives.
type Tool interface {
	CurrentState(ctx context.Context) (blocker.State, error)
	Start(ctx context.Context, minutes int) blocker.Outcome
}

// Consumer receives attempt outcomes until the activation is settled. It
// must keep receiving until it sees Started, a terminal outcome, or a
// closed channel.
type Consumer interface {
	Run(ctx context.Context, outcomes <-chan blocker.Outcome) error
}

// Controller runs activations. It is safe to reuse across calls but
// activations never overlap, even across processes.
type Controller struct {
	tool           Tool
	consumer       Consumer
	now            func() time.Time
	creds          *credential.State
	observer       func(blocker.Outcome)
	lockPath       string
	secret         string
	attemptTimeout time.Duration
	retryDelay     time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithAttemptTimeout bounds each start attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithRetryDelay pauses between transient outcomes.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.retryDelay = d
	}
}

// WithCredential arms creds with secret for the length of each activation.
func WithCredential(creds *credential.State, secret string) Option {
	return func(c *Controller) {
		c.creds = creds
		c.secret = secret
	}
}

// WithConsumer hands outcomes to consumer instead of the default receive
// loop.
func WithConsumer(consumer Consumer) Option {
	return func(c *Controller) {
		c.consumer = consumer
	}
}

// WithObserver calls fn with every outcome before it is delivered.
func WithObserver(fn func(blocker.Outcome)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// New returns a Controller that drives tool and serialises activations with
// the lock file at lockPath.
func New(tool Tool, lockPath string, opts ...Option) *Controller {
	c := &Controller{
		tool:           tool,
		lockPath:       lockPath,
		now:            time.Now,
		attemptTimeout: DefaultAttemptTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// EnsureActiveUntil makes sure the tool is active, starting a block that
// lasts until target if it is not. It returns nil once the tool reports a
// started block or when the tool is already active. ErrTargetPassed means
// target passed before any block was started.
func (c *Controller) EnsureActiveUntil(ctx context.Context, target time.Time) error {
	release, err := acquire(c.lockPath)
	if err != nil {
		return err
	}
	defer release()

	state, err := c.tool.CurrentState(ctx)
	if err != nil {
		return err
	}

	if state.Active {
		slog.Info("block already active", slog.String("state", state.String()))

		return nil
	}

	if c.creds != nil && c.secret != "" {
		c.creds.Arm(c.secret)
		defer c.creds.Clear()
	}

	ctx, cancel := context.WithCancel(ctx)

	outcomes := make(chan blocker.Outcome)
	done := make(chan struct{})

	var passed bool

	go func() {
		defer close(done)
		passed = c.attempts(ctx, target, outcomes)
	}()

	if c.consumer != nil {
		err = c.consumer.Run(ctx, outcomes)
	} else {
		err = Drain(ctx, outcomes)
	}

	cancel()
	<-done

	if err == nil && passed {
		return ErrTargetPassed.Fmt(target.Format(time.DateTime))
	}

	return err
}

// attempts issues start attempts until one is not transient. Each outcome
// is handed over before the next attempt begins. If target passes first,
// the channel is closed without a further outcome and attempts reports
// true.
func (c *Controller) attempts(
	ctx context.Context,
	target time.Time,
	outcomes chan<- blocker.Outcome,
) bool {
	defer close(outcomes)

	for n := 1; ; n++ {
		minutes := timeutil.CeilMinutes(Remaining(c.now(), target))
		if minutes <= 0 {
			slog.Info("target time has passed", slog.Time("target", target))
			return true
		}

		o := c.attempt(ctx, minutes)

		slog.Info(
			"start attempt finished",
			slog.Int("attempt", n),
			slog.Int("minutes", minutes),
			slog.String("outcome", o.Kind.String()),
			slog.Any("error", o.Err),
		)

		if c.observer != nil {
			c.observer(o)
		}

		select {
		case outcomes <- o:
		case <-ctx.Done():
			return false
		}

		if !o.Kind.Transient() {
			return false
		}

		if c.retryDelay > 0 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return false
			}
		}
	}
}

// attempt runs one time-boxed start command. The result is NoResponse if
// the tool does not return before the deadline, even if it ignores ctx.
func (c *Controller) attempt(ctx context.Context, minutes int) blocker.Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	result := make(chan blocker.Outcome, 1)

	go func() {
		result <- c.tool.Start(ctx, minutes)
	}()

	select {
	case o := <-result:
		return o
	case <-ctx.Done():
		return blocker.Outcome{
			Kind:    blocker.NoResponse,
			Minutes: minutes,
			Err:     errNoResponse.Fmt(c.attemptTimeout).Wrap(ctx.Err()),
		}
	}
}

// Drain receives outcomes until the activation is settled. Started and a
// closed channel mean success, a terminal outcome means failure. Transient
// outcomes are skipped.
func Drain(ctx context.Context, outcomes <-chan blocker.Outcome) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o, ok := <-outcomes:
			if !ok {
				return ctx.Err()
			}

			if o.Kind == blocker.Started {
				return nil
			}

			if !o.Kind.Transient() {
				return o.Failure()
			}
		}
	}
}

// Remaining returns how long the tool must stay active from now to reach
// target. It is zero or negative once target has passed.
func Remaining(now, target time.Time) time.Duration {
	return target.Sub(now)
}
