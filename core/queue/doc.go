// Package queue implements the background job queue that runs propagation work.
//
// A Dispatcher owns a fixed pool of workers consuming an in-memory backlog.
// Jobs are plain values implementing Job; optional interfaces refine how they
// are executed:
//
//   - Unique: a lock keyed by UniqueID is taken at dispatch time for UniqueFor.
//     While it is held, identical dispatches are dropped, so concurrent
//     duplicates collapse into one execution. The lock is released when the job
//     finishes, fails permanently or is dropped.
//   - Retryable: overrides the attempt limit and the per-attempt timeout.
//   - Backoffer: supplies an explicit retry schedule. Without one, retries use
//     an exponential backoff (cenkalti/backoff) bounded by the configuration.
//
// # Outcomes
//
// A job attempt ends in one of three outcomes. A nil error is a success. An
// error wrapped with Permanent is never retried. Every other error, including
// a timeout or a recovered panic, is transient and retried until the attempt
// limit. Jobs that run out of attempts are logged and written to the
// failed_jobs table for operator inspection.
//
// # Locks
//
// MemoryLocker serves single-process deployments and tests. RedisLocker uses
// SET NX with a compare-and-delete script so uniqueness holds across replicas.
//
// # Usage
//
//	d := queue.NewDispatcher(cfg.Queue, log,
//	    queue.WithLocker(queue.NewRedisLocker(rdb)),
//	    queue.WithFailedJobStore(queue.NewFailedJobStore(db)),
//	    queue.WithMetrics(queue.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	d.Start(ctx)
//	defer d.Stop()
//	err := d.Enqueue(ctx, job)
package queue
