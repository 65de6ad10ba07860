package queue

import (
	"context"
	"errors"
	"time"
)

// Job is a unit of background work.
type Job interface {
	// Name identifies the job type in logs and metrics.
	Name() string
	// Handle performs the work. A nil error is a success.
	Handle(ctx context.Context) error
}

// Unique is implemented by jobs that must not run concurrently with an
// identical dispatch. Duplicates enqueued while the lock is held are dropped.
type Unique interface {
	UniqueID() string
	UniqueFor() time.Duration
}

// Retryable overrides the dispatcher's default attempt limit and timeout.
type Retryable interface {
	Tries() int
	Timeout() time.Duration
}

// Backoffer supplies an explicit retry schedule. The delay before attempt n+1
// is schedule[n-1]; the last entry repeats.
type Backoffer interface {
	Backoff() []time.Duration
}

// Enqueuer accepts jobs for asynchronous execution.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) error
}

// Outcome classifies the result of one job attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeTransient Outcome = "transient"
	OutcomePermanent Outcome = "permanent"
)

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Transient marks err as retryable. Unmarked errors are treated the same way.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// Classify maps a job error onto an Outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var p *permanentError
	if errors.As(err, &p) {
		return OutcomePermanent
	}
	return OutcomeTransient
}
