package media

import (
	"context"
	"errors"
	"fmt"

	"game-catalog/core/queue"
	"game-catalog/feature/catalog"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invalidator drops cached views of a product.
type Invalidator interface {
	Invalidate(productID uint)
}

// Summary counts what one propagation wrote.
type Summary struct {
	Images      int
	Videos      int
	Screenshots int
	Logos       int
}

// Propagator turns the media carried by a game's source payloads into its
// Image and Video rows.
type Propagator struct {
	db     *gorm.DB
	queue  queue.Enqueuer
	cache  Invalidator
	logger *zap.Logger
}

// NewPropagator creates a Propagator. cache may be nil.
func NewPropagator(db *gorm.DB, q queue.Enqueuer, cache Invalidator, logger *zap.Logger) *Propagator {
	return &Propagator{db: db, queue: q, cache: cache, logger: logger}
}

// Job returns the queue job for gameID.
func (p *Propagator) Job(gameID uint) queue.Job {
	return &Job{GameID: gameID, propagator: p}
}

// EnqueueGame schedules media propagation for gameID.
func (p *Propagator) EnqueueGame(ctx context.Context, gameID uint) error {
	return p.queue.Enqueue(ctx, p.Job(gameID))
}

// Propagate rebuilds the media rows of gameID. A missing game is a no-op, an
// undecodable payload is a permanent failure and database errors are
// transient.
func (p *Propagator) Propagate(ctx context.Context, gameID uint) error {
	l := p.logger.With(zap.Uint("video_game_id", gameID))
	db := p.db.WithContext(ctx)

	var game catalog.VideoGame
	err := db.Select("id", "video_game_title_id", "provider", "external_id").First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Info("Game not found, skipping media propagation")
		return nil
	}
	if err != nil {
		return queue.Transient(fmt.Errorf("failed to load game %d: %w", gameID, err))
	}

	var sources []catalog.SourceRecord
	if err := db.Select("id", "payload").
		Where("video_game_title_id = ? AND provider = ? AND external_id = ?",
			game.VideoGameTitleID, game.Provider, game.ExternalID).
		Order("id").
		Find(&sources).Error; err != nil {
		return queue.Transient(fmt.Errorf("failed to load sources of game %d: %w", gameID, err))
	}

	var images, videos []catalog.MediaDetail
	seen := map[string]bool{}
	for _, src := range sources {
		payload, err := catalog.DecodePayload(src.Payload)
		if err != nil {
			return queue.Permanent(fmt.Errorf("source %d: %w", src.ID, err))
		}
		found := Extract(payload)
		images = appendUnseen(images, found.Images, seen)
		videos = appendUnseen(videos, found.Videos, seen)
	}

	var productID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		if len(images) > 0 {
			row := catalog.Image{
				VideoGameID: game.ID,
				Provider:    game.Provider,
				URLs:        urlsOf(images),
				Details:     datatypes.JSONSlice[catalog.MediaDetail](images),
			}
			if err := upsertMedia(tx, &row); err != nil {
				return fmt.Errorf("failed to upsert images: %w", err)
			}
		}
		if len(videos) > 0 {
			row := catalog.Video{
				VideoGameID: game.ID,
				Provider:    game.Provider,
				URLs:        urlsOf(videos),
				Details:     datatypes.JSONSlice[catalog.MediaDetail](videos),
			}
			if err := upsertMedia(tx, &row); err != nil {
				return fmt.Errorf("failed to upsert videos: %w", err)
			}
		}

		var title catalog.Title
		if err := tx.Select("id", "product_id").First(&title, game.VideoGameTitleID).Error; err != nil {
			return fmt.Errorf("failed to load title %d: %w", game.VideoGameTitleID, err)
		}
		productID = title.ProductID
		return nil
	})
	if err != nil {
		return queue.Transient(err)
	}

	if p.cache != nil {
		p.cache.Invalidate(productID)
	}

	s := summarize(images, videos)
	l.Info("Media propagation summary",
		zap.String("provider", game.Provider),
		zap.Int("images", s.Images),
		zap.Int("videos", s.Videos),
		zap.Int("screenshots", s.Screenshots),
		zap.Int("logos", s.Logos),
	)
	return nil
}

// upsertMedia writes row keyed by (video_game_id, provider).
func upsertMedia(tx *gorm.DB, row any) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_game_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"urls", "details", "updated_at"}),
	}).Create(row).Error
}

func appendUnseen(dst, items []catalog.MediaDetail, seen map[string]bool) []catalog.MediaDetail {
	for _, d := range items {
		if seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		dst = append(dst, d)
	}
	return dst
}

func urlsOf(details []catalog.MediaDetail) datatypes.JSONSlice[string] {
	urls := make(datatypes.JSONSlice[string], 0, len(details))
	for _, d := range details {
		urls = append(urls, d.URL)
	}
	return urls
}

func summarize(images, videos []catalog.MediaDetail) Summary {
	s := Summary{Images: len(images), Videos: len(videos)}
	for _, d := range images {
		switch {
		case IsScreenshot(d.Kind):
			s.Screenshots++
		case d.Kind == KindLogo || d.Kind == KindIcon:
			s.Logos++
		}
	}
	return s
}
