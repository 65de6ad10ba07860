package propagation

import (
	"context"
	"errors"
	"fmt"

	"game-catalog/core/queue"
	"game-catalog/feature/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MediaEnqueuer schedules media propagation for a provider-scoped game.
type MediaEnqueuer interface {
	EnqueueGame(ctx context.Context, gameID uint) error
}

// sourceProjection is the column set propagation needs; the raw payload is
// never loaded.
var sourceProjection = []string{
	"id", "video_game_title_id", "video_game_source_id", "provider", "external_id",
	"name", "description", "rating", "rating_count", "release_date",
	"developer", "publisher", "genre", "platform",
}

// Propagator executes source propagation jobs.
type Propagator struct {
	db         *gorm.DB
	invariants *Invariants
	media      MediaEnqueuer
	logger     *zap.Logger
}

// NewPropagator creates a Propagator. media may be nil.
func NewPropagator(db *gorm.DB, invariants *Invariants, media MediaEnqueuer, logger *zap.Logger) *Propagator {
	return &Propagator{db: db, invariants: invariants, media: media, logger: logger}
}

// Job returns the queue job for sourceID.
func (p *Propagator) Job(sourceID uint) queue.Job {
	return &SourceJob{SourceID: sourceID, propagator: p}
}

// Propagate merges the source record into its game, recomputes the provider's
// items count and schedules media propagation. A missing record is a no-op.
func (p *Propagator) Propagate(ctx context.Context, sourceID uint) error {
	l := p.logger.With(zap.Uint("source_id", sourceID))

	var (
		src     catalog.SourceRecord
		game    *catalog.VideoGame
		changed bool
		missing bool
	)
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Select(sourceProjection).First(&src, sourceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			missing = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load source %d: %w", sourceID, err)
		}

		game, err = p.resolveGame(ctx, tx, &src)
		if err != nil {
			return err
		}

		if changed = MergeSource(game, &src); changed {
			if err := tx.Save(game).Error; err != nil {
				return fmt.Errorf("failed to save game %d: %w", game.ID, err)
			}
		}

		_, err = p.invariants.RecomputeItemsCount(ctx, tx, src.Provider)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to propagate source %d: %w", sourceID, err)
	}
	if missing {
		l.Info("Source record not found, skipping propagation")
		return nil
	}

	l.Info("Propagated source record",
		zap.String("provider", src.Provider),
		zap.String("external_id", src.ExternalID),
		zap.Uint("video_game_id", game.ID),
		zap.Bool("changed", changed),
	)

	if p.media != nil {
		// Media failures never undo the committed merge.
		if err := p.media.EnqueueGame(ctx, game.ID); err != nil {
			l.Warn("Failed to enqueue media propagation", zap.Uint("video_game_id", game.ID), zap.Error(err))
		}
	}
	return nil
}

// resolveGame locks the game keyed by (title, provider, external id), creating
// it seeded with the source name when missing.
func (p *Propagator) resolveGame(ctx context.Context, tx *gorm.DB, src *catalog.SourceRecord) (*catalog.VideoGame, error) {
	key := tx.WithContext(ctx).Where(
		"video_game_title_id = ? AND provider = ? AND external_id = ?",
		src.VideoGameTitleID, src.Provider, src.ExternalID,
	)

	var game catalog.VideoGame
	err := key.Session(&gorm.Session{}).Clauses(clause.Locking{Strength: "UPDATE"}).First(&game).Error
	if err == nil {
		return &game, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	game = catalog.VideoGame{
		VideoGameTitleID: src.VideoGameTitleID,
		Provider:         src.Provider,
		ExternalID:       src.ExternalID,
	}
	if src.Name != nil {
		game.Name = *src.Name
	}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&game).Error; err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	if game.ID != 0 {
		return &game, nil
	}

	// Lost an insert race; the winner's row is authoritative.
	var existing catalog.VideoGame
	if err := key.Session(&gorm.Session{}).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	return &existing, nil
}
