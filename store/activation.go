package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

// Result is how an activation ended.
type Result string

const (
	ResultStarted       Result = "started"
	ResultAlreadyActive Result = "already active"
	ResultFailed        Result = "failed"
	ResultInterrupted   Result = "interrupted"
	ResultTargetPassed  Result = "target passed"
)

// Activation records one run of the activation controller.
type Activation struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Target    time.Time `json:"target"`
	Result    Result    `json:"result"`
	Error     string    `json:"error,omitempty"`
	// Trigger names the command that ran the activation.
	Trigger  string    `json:"trigger"`
	Attempts int       `json:"attempts"`
	Minutes  int       `json:"minutes"`
	ID       uuid.UUID `json:"id"`
}

func (a *Activation) key() []byte {
	return timeutil.ToKey(a.StartedAt.UTC())
}

// Duration is how long the activation took.
func (a *Activation) Duration() time.Duration {
	if a.EndedAt.IsZero() {
		return 0
	}

	return a.EndedAt.Sub(a.StartedAt)
}
