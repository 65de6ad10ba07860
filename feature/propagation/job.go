package propagation

import (
	"context"
	"fmt"
	"time"
)

const (
	// JobName identifies source propagation jobs in logs and metrics.
	JobName = "propagate-source"

	sourceJobLock    = 60 * time.Second
	sourceJobTries   = 3
	sourceJobTimeout = 120 * time.Second
)

// SourceJob merges one source record into its provider-scoped game. Duplicate
// dispatches for the same record collapse while the first is in flight.
type SourceJob struct {
	SourceID   uint
	propagator *Propagator
}

func (j *SourceJob) Name() string { return JobName }

func (j *SourceJob) Handle(ctx context.Context) error {
	return j.propagator.Propagate(ctx, j.SourceID)
}

func (j *SourceJob) UniqueID() string {
	return fmt.Sprintf("propagate-source-%d", j.SourceID)
}

func (j *SourceJob) UniqueFor() time.Duration { return sourceJobLock }

func (j *SourceJob) Tries() int { return sourceJobTries }

func (j *SourceJob) Timeout() time.Duration { return sourceJobTimeout }
