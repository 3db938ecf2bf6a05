package blocker

// Kind classifies the result of one start attempt.
type Kind int

const (
	// Started means the tool confirmed the block was added.
	Started Kind = iota
	// UserCancelled means the authorization prompt was dismissed.
	UserCancelled
	// NoResponse means the attempt did not finish within its time box.
	NoResponse
	// ToolFailure means the tool ran but did not report success.
	ToolFailure
	// TransportFailure means the tool could not be run or read.
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "started"
	case UserCancelled:
		return "user cancelled"
	case NoResponse:
		return "no response"
	case ToolFailure:
		return "tool failure"
	case TransportFailure:
		return "transport failure"
	}

	return "unknown"
}

// Transient reports whether another attempt may succeed.
func (k Kind) Transient() bool {
	return k == UserCancelled || k == NoResponse
}

// Outcome is the result of one start attempt.
type Outcome struct {
	// Err is set for ToolFailure and TransportFailure, and may be set for
	// NoResponse.
	Err     error
	Kind    Kind
	Minutes int
}

// Failure returns the error to surface when o ends an activation without
// starting a block.
func (o Outcome) Failure() error {
	if o.Err != nil {
		return o.Err
	}

	return ErrAttemptFailed.Fmt(o.Kind)
}
