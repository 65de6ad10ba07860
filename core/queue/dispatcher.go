package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"game-catalog/core/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	// ErrStopped is returned when enqueueing on a stopped dispatcher.
	ErrStopped = errors.New("queue is stopped")
	// ErrBacklogFull is returned when the backlog limit is reached.
	ErrBacklogFull = errors.New("queue backlog is full")
)

const uniqueLockPrefix = "queue:unique:"

type envelope struct {
	job       Job
	attempt   int
	lockKey   string
	lockToken string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLocker replaces the in-process unique lock store.
func WithLocker(l Locker) Option {
	return func(d *Dispatcher) { d.locker = l }
}

// WithFailedJobStore records jobs that fail permanently.
func WithFailedJobStore(s FailedJobStore) Option {
	return func(d *Dispatcher) { d.failed = s }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// Dispatcher is an in-process job queue with a fixed worker pool, unique
// in-flight locks, per-attempt timeouts and retries.
type Dispatcher struct {
	cfg     Config
	locker  Locker
	failed  FailedJobStore
	metrics *Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	backlog []*envelope
	timers  map[*time.Timer]*envelope
	stopped bool
	notify  chan struct{}

	inflight atomic.Int64
	workers  sync.WaitGroup
	cancel   context.CancelFunc
}

// NewDispatcher creates a dispatcher. Jobs may be enqueued before Start.
func NewDispatcher(cfg Config, logger *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:    cfg.withDefaults(),
		locker: NewMemoryLocker(),
		logger: logger,
		timers: make(map[*time.Timer]*envelope),
		notify: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the worker pool.
func (d *Dispatcher) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	for i := 0; i < d.cfg.Workers; i++ {
		d.workers.Add(1)
		go d.worker(ctx)
	}
	d.logger.Info("Queue workers started", zap.Int("workers", d.cfg.Workers))
}

// Stop rejects new jobs, cancels running attempts and drops queued work.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true

	var dropped []*envelope
	for t, env := range d.timers {
		// A timer that already fired pushes into a stopped queue and drops itself.
		if t.Stop() {
			dropped = append(dropped, env)
		}
	}
	d.timers = make(map[*time.Timer]*envelope)
	dropped = append(dropped, d.backlog...)
	d.backlog = nil
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.workers.Wait()

	for _, env := range dropped {
		d.drop(env, ErrStopped)
	}
	d.logger.Info("Queue workers stopped", zap.Int("dropped", len(dropped)))
}

// Enqueue accepts job for execution. A Unique job whose key is already locked
// is dropped without error.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	env := &envelope{job: job, attempt: 1}
	if u, ok := job.(Unique); ok {
		key := uniqueLockPrefix + u.UniqueID()
		token, acquired, err := d.locker.TryLock(ctx, key, u.UniqueFor())
		if err != nil {
			return fmt.Errorf("failed to acquire unique lock for %s: %w", job.Name(), err)
		}
		if !acquired {
			d.metrics.observeCollapsed(job.Name())
			d.logger.Debug("Duplicate job collapsed", zap.String("job", job.Name()), zap.String("unique_id", u.UniqueID()))
			return nil
		}
		env.lockKey, env.lockToken = key, token
	}

	d.inflight.Add(1)
	if err := d.push(env); err != nil {
		d.finish(env)
		return err
	}
	return nil
}

// Drain blocks until every accepted job has finished or ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		if d.inflight.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Pending returns the number of accepted jobs that have not finished.
func (d *Dispatcher) Pending() int {
	return int(d.inflight.Load())
}

func (d *Dispatcher) push(env *envelope) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	if len(d.backlog) >= d.cfg.Backlog {
		d.mu.Unlock()
		return ErrBacklogFull
	}
	d.backlog = append(d.backlog, env)
	n := len(d.backlog)
	d.mu.Unlock()

	d.metrics.setBacklog(n)
	d.signal()
	return nil
}

func (d *Dispatcher) pop() (*envelope, bool) {
	d.mu.Lock()
	if len(d.backlog) == 0 {
		d.mu.Unlock()
		return nil, false
	}
	env := d.backlog[0]
	d.backlog[0] = nil
	d.backlog = d.backlog[1:]
	remaining := len(d.backlog)
	d.mu.Unlock()

	d.metrics.setBacklog(remaining)
	if remaining > 0 {
		// Wake another worker for the rest of the backlog.
		d.signal()
	}
	return env, true
}

func (d *Dispatcher) signal() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.workers.Done()
	for {
		if env, ok := d.pop(); ok {
			d.execute(ctx, env)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-d.notify:
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, env *envelope) {
	name := env.job.Name()
	l := logger.WithJob(d.logger, name, env.attempt)
	tries, timeout := d.policy(env.job)

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	start := time.Now()
	err := d.handle(attemptCtx, env.job)
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("job timed out after %s: %w", timeout, err)
	}
	cancel()

	outcome := Classify(err)
	d.metrics.observeAttempt(name, outcome, time.Since(start))

	switch {
	case outcome == OutcomeSuccess:
		l.Debug("Job completed", zap.Duration("elapsed", time.Since(start)))
		d.finish(env)
	case ctx.Err() != nil:
		l.Warn("Job interrupted by shutdown", zap.Error(err))
		d.finish(env)
	case outcome == OutcomePermanent || env.attempt >= tries:
		d.fail(env, outcome, err)
	default:
		delay := d.delay(env)
		l.Warn("Job failed, retrying", zap.Error(err), zap.Duration("delay", delay))
		env.attempt++
		d.retryAfter(env, delay)
	}
}

func (d *Dispatcher) handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Handle(ctx)
}

func (d *Dispatcher) policy(job Job) (int, time.Duration) {
	tries, timeout := d.cfg.Tries, d.cfg.timeout()
	if r, ok := job.(Retryable); ok {
		if r.Tries() > 0 {
			tries = r.Tries()
		}
		if r.Timeout() > 0 {
			timeout = r.Timeout()
		}
	}
	return tries, timeout
}

// delay returns the wait before the next attempt of env.
func (d *Dispatcher) delay(env *envelope) time.Duration {
	if b, ok := env.job.(Backoffer); ok {
		if schedule := b.Backoff(); len(schedule) > 0 {
			i := env.attempt - 1
			if i >= len(schedule) {
				i = len(schedule) - 1
			}
			return schedule[i]
		}
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = time.Duration(d.cfg.RetryInitialMillis) * time.Millisecond
	eb.MaxInterval = time.Duration(d.cfg.RetryMaxSeconds) * time.Second
	eb.MaxElapsedTime = 0
	eb.Reset()

	var next time.Duration
	for i := 0; i < env.attempt; i++ {
		next = eb.NextBackOff()
	}
	return next
}

func (d *Dispatcher) retryAfter(env *envelope, delay time.Duration) {
	if delay <= 0 {
		if err := d.push(env); err != nil {
			d.drop(env, err)
		}
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, t)
		d.mu.Unlock()
		if err := d.push(env); err != nil {
			d.drop(env, err)
		}
	})
	d.timers[t] = env
}

func (d *Dispatcher) fail(env *envelope, outcome Outcome, cause error) {
	name := env.job.Name()
	d.logger.Error("Job failed permanently",
		zap.String("job", name),
		zap.Int("attempts", env.attempt),
		zap.String("outcome", string(outcome)),
		zap.Error(cause),
	)

	if d.failed != nil {
		record := FailedJob{
			Job:      name,
			Attempts: env.attempt,
			Outcome:  string(outcome),
			Error:    cause.Error(),
		}
		if u, ok := env.job.(Unique); ok {
			record.UniqueID = u.UniqueID()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.failed.Record(ctx, record); err != nil {
			d.logger.Error("Failed to record failed job", zap.String("job", name), zap.Error(err))
		}
		cancel()
	}
	d.finish(env)
}

func (d *Dispatcher) drop(env *envelope, reason error) {
	d.logger.Warn("Job dropped", zap.String("job", env.job.Name()), zap.Error(reason))
	d.finish(env)
}

// finish releases the unique lock and marks env as done.
func (d *Dispatcher) finish(env *envelope) {
	if env.lockKey != "" {
		if err := d.locker.Release(context.Background(), env.lockKey, env.lockToken); err != nil {
			d.logger.Warn("Failed to release unique lock", zap.String("key", env.lockKey), zap.Error(err))
		}
	}
	d.inflight.Add(-1)
}
