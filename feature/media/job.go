package media

import (
	"context"
	"fmt"
	"time"
)

const (
	// JobName identifies media propagation jobs in logs and metrics.
	JobName = "propagate-media"

	mediaJobLock    = 60 * time.Second
	mediaJobTries   = 3
	mediaJobTimeout = 120 * time.Second
)

// mediaJobBackoff is the retry schedule for provider-facing failures.
var mediaJobBackoff = []time.Duration{30 * time.Second, 120 * time.Second, 300 * time.Second}

// Job rebuilds the Image and Video rows of one game.
type Job struct {
	GameID     uint
	propagator *Propagator
}

func (j *Job) Name() string { return JobName }

func (j *Job) Handle(ctx context.Context) error {
	return j.propagator.Propagate(ctx, j.GameID)
}

func (j *Job) UniqueID() string {
	return fmt.Sprintf("propagate-media-%d", j.GameID)
}

func (j *Job) UniqueFor() time.Duration { return mediaJobLock }

func (j *Job) Tries() int { return mediaJobTries }

func (j *Job) Timeout() time.Duration { return mediaJobTimeout }

func (j *Job) Backoff() []time.Duration { return mediaJobBackoff }
