package propagation

import (
	"context"
	"errors"
	"fmt"

	"game-catalog/core/queue"
	"game-catalog/feature/catalog"
	"game-catalog/feature/provider"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSourceNotFound is returned when a source record does not exist.
var ErrSourceNotFound = errors.New("source record not found")

// Engine reacts to source record lifecycle events: it enforces invariants in
// the triggering transaction and dispatches propagation once it commits.
type Engine struct {
	db         *gorm.DB
	invariants *Invariants
	propagator *Propagator
	queue      queue.Enqueuer
	logger     *zap.Logger
}

// NewEngine wires the invariant enforcer, the propagator and the queue.
func NewEngine(db *gorm.DB, registry *provider.Registry, q queue.Enqueuer, media MediaEnqueuer, logger *zap.Logger) *Engine {
	inv := NewInvariants(registry, logger)
	return &Engine{
		db:         db,
		invariants: inv,
		propagator: NewPropagator(db, inv, media, logger),
		queue:      q,
		logger:     logger,
	}
}

// Invariants returns the engine's invariant enforcer.
func (e *Engine) Invariants() *Invariants { return e.invariants }

// Propagator returns the engine's job executor.
func (e *Engine) Propagator() *Propagator { return e.propagator }

// Bindings is the static event subscription list. Deletion is deliberately
// absent: dependents are removed by cascade, not by propagation.
func (e *Engine) Bindings() []Binding {
	return []Binding{
		{Event: EventCreated, Handler: e.onCreated},
		{Event: EventUpdated, Handler: e.onUpdated},
		{Event: EventRestored, Handler: e.onCreated},
	}
}

// Pipeline builds the event pipeline from Bindings.
func (e *Engine) Pipeline() *Pipeline {
	return NewPipeline(e.Bindings()...)
}

func (e *Engine) onCreated(ctx context.Context, tx *gorm.DB, ev Event) error {
	if err := e.invariants.Enforce(ctx, tx, ev.Source); err != nil {
		return fmt.Errorf("failed to enforce invariants for source %d: %w", ev.Source.ID, err)
	}
	e.dispatch(ctx, ev.Source.ID)
	return nil
}

func (e *Engine) onUpdated(ctx context.Context, tx *gorm.DB, ev Event) error {
	if !ev.WatchedChanged() {
		e.logger.Debug("Source update touched no watched field",
			zap.Uint("source_id", ev.Source.ID), zap.Strings("changed", ev.Changed))
		return nil
	}
	return e.onCreated(ctx, tx, ev)
}

func (e *Engine) dispatch(ctx context.Context, sourceID uint) {
	job := e.propagator.Job(sourceID)
	afterCommit(ctx, func() {
		if err := e.queue.Enqueue(context.WithoutCancel(ctx), job); err != nil {
			e.logger.Error("Failed to enqueue propagation", zap.Uint("source_id", sourceID), zap.Error(err))
		}
	})
}

// Resync re-runs the created path for an existing record: invariants, then
// propagation dispatch. Used by backfills.
func (e *Engine) Resync(ctx context.Context, sourceID uint) error {
	ctx, hooks := withCommitHooks(ctx)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src catalog.SourceRecord
		if err := tx.Select(sourceProjection).First(&src, sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrSourceNotFound, sourceID)
			}
			return fmt.Errorf("failed to load source %d: %w", sourceID, err)
		}
		return e.onCreated(ctx, tx, Event{Type: EventCreated, Source: &src})
	})
	if err != nil {
		return err
	}
	hooks.run()
	return nil
}
