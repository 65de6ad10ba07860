package propagation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"game-catalog/feature/catalog"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrInvalidSource is returned for input missing a provider, external id or title.
var ErrInvalidSource = errors.New("invalid source record")

// SourceInput is an ingestion request. Either TitleID or a title name (Title,
// falling back to Name) identifies the owning title.
type SourceInput struct {
	TitleID     uint           `json:"title_id"`
	Title       string         `json:"title"`
	ProductType string         `json:"product_type"`
	Provider    string         `json:"provider"`
	ExternalID  string         `json:"external_id"`
	Payload     map[string]any `json:"payload"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Rating      *float64       `json:"rating"`
	RatingCount *int           `json:"rating_count"`
	ReleaseDate *time.Time     `json:"release_date"`
	Developer   *string        `json:"developer"`
	Publisher   *string        `json:"publisher"`
	Genre       *string        `json:"genre"`
	Platform    *string        `json:"platform"`
}

func (in SourceInput) validate() error {
	if catalog.NormalizeProvider(in.Provider) == "" {
		return fmt.Errorf("%w: provider is required", ErrInvalidSource)
	}
	if in.ExternalID == "" {
		return fmt.Errorf("%w: external_id is required", ErrInvalidSource)
	}
	if in.TitleID == 0 && in.Title == "" && (in.Name == nil || *in.Name == "") {
		return fmt.Errorf("%w: title_id, title or name is required", ErrInvalidSource)
	}
	return nil
}

func (in SourceInput) apply(rec *catalog.SourceRecord, payload datatypes.JSON) {
	rec.Provider = catalog.NormalizeProvider(in.Provider)
	rec.ExternalID = in.ExternalID
	rec.Payload = payload
	rec.Name = in.Name
	rec.Description = in.Description
	rec.Rating = in.Rating
	rec.RatingCount = in.RatingCount
	rec.ReleaseDate = in.ReleaseDate
	rec.Developer = in.Developer
	rec.Publisher = in.Publisher
	rec.Genre = in.Genre
	rec.Platform = in.Platform
}

// Recorder is the ingestion surface for source records. Every mutation runs in
// a transaction and fires its lifecycle event through the pipeline; queued
// work is released only after commit.
type Recorder struct {
	db       *gorm.DB
	pipeline *Pipeline
	logger   *zap.Logger
}

// NewRecorder creates a Recorder dispatching through pipeline.
func NewRecorder(db *gorm.DB, pipeline *Pipeline, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, pipeline: pipeline, logger: logger}
}

// Create inserts rec and fires EventCreated.
func (r *Recorder) Create(ctx context.Context, rec *catalog.SourceRecord) error {
	rec.Provider = catalog.NormalizeProvider(rec.Provider)
	return r.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("failed to create source: %w", err)
		}
		return r.pipeline.Dispatch(ctx, tx, Event{Type: EventCreated, Source: rec})
	})
}

// Update applies mutate to the live record id and fires EventUpdated with the
// changed columns. Nothing fires when mutate changes nothing.
func (r *Recorder) Update(ctx context.Context, id uint, mutate func(*catalog.SourceRecord)) (*catalog.SourceRecord, error) {
	var rec catalog.SourceRecord
	err := r.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrSourceNotFound, id)
			}
			return fmt.Errorf("failed to load source %d: %w", id, err)
		}
		return r.update(ctx, tx, &rec, mutate)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete soft deletes record id. No propagation runs.
func (r *Recorder) Delete(ctx context.Context, id uint) error {
	return r.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var rec catalog.SourceRecord
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrSourceNotFound, id)
			}
			return fmt.Errorf("failed to load source %d: %w", id, err)
		}
		if err := tx.Delete(&rec).Error; err != nil {
			return fmt.Errorf("failed to delete source %d: %w", id, err)
		}
		return r.pipeline.Dispatch(ctx, tx, Event{Type: EventDeleted, Source: &rec})
	})
}

// Restore undeletes record id and fires EventRestored. Restoring a live
// record is a no-op.
func (r *Recorder) Restore(ctx context.Context, id uint) (*catalog.SourceRecord, error) {
	var rec catalog.SourceRecord
	err := r.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Unscoped().First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrSourceNotFound, id)
			}
			return fmt.Errorf("failed to load source %d: %w", id, err)
		}
		if !rec.DeletedAt.Valid {
			return nil
		}
		return r.restore(ctx, tx, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert creates or updates the record keyed by (provider, external id),
// resolving or creating the owning title. A soft deleted match is restored.
func (r *Recorder) Upsert(ctx context.Context, in SourceInput) (*catalog.SourceRecord, bool, error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	payload, err := catalog.EncodePayload(in.Payload)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	var (
		rec     catalog.SourceRecord
		created bool
	)
	err = r.transaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		titleID, err := r.resolveTitle(ctx, tx, in)
		if err != nil {
			return err
		}

		err = tx.Unscoped().
			Where("provider = ? AND external_id = ?", catalog.NormalizeProvider(in.Provider), in.ExternalID).
			First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			in.apply(&rec, payload)
			rec.VideoGameTitleID = titleID
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to create source: %w", err)
			}
			return r.pipeline.Dispatch(ctx, tx, Event{Type: EventCreated, Source: &rec})
		case err != nil:
			return fmt.Errorf("failed to load source: %w", err)
		case rec.DeletedAt.Valid:
			in.apply(&rec, payload)
			rec.VideoGameTitleID = titleID
			if err := tx.Unscoped().Save(&rec).Error; err != nil {
				return fmt.Errorf("failed to save source %d: %w", rec.ID, err)
			}
			return r.restore(ctx, tx, &rec)
		default:
			return r.update(ctx, tx, &rec, func(s *catalog.SourceRecord) {
				in.apply(s, payload)
				s.VideoGameTitleID = titleID
			})
		}
	})
	if err != nil {
		return nil, false, err
	}
	return &rec, created, nil
}

func (r *Recorder) resolveTitle(ctx context.Context, tx *gorm.DB, in SourceInput) (uint, error) {
	if in.TitleID != 0 {
		var title catalog.Title
		if err := tx.Select("id").First(&title, in.TitleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("%w: title %d does not exist", ErrInvalidSource, in.TitleID)
			}
			return 0, fmt.Errorf("failed to load title %d: %w", in.TitleID, err)
		}
		return title.ID, nil
	}

	name := in.Title
	if name == "" {
		name = *in.Name
	}
	title, err := catalog.EnsureTitle(ctx, tx, name, in.ProductType)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyTitle) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		return 0, err
	}
	return title.ID, nil
}

func (r *Recorder) update(ctx context.Context, tx *gorm.DB, rec *catalog.SourceRecord, mutate func(*catalog.SourceRecord)) error {
	before := *rec
	mutate(rec)
	rec.Provider = catalog.NormalizeProvider(rec.Provider)

	changed := ChangedFields(&before, rec)
	if len(changed) == 0 {
		r.logger.Debug("Source update changed nothing", zap.Uint("source_id", rec.ID))
		return nil
	}
	if err := tx.Save(rec).Error; err != nil {
		return fmt.Errorf("failed to save source %d: %w", rec.ID, err)
	}
	return r.pipeline.Dispatch(ctx, tx, Event{Type: EventUpdated, Source: rec, Changed: changed})
}

func (r *Recorder) restore(ctx context.Context, tx *gorm.DB, rec *catalog.SourceRecord) error {
	if err := tx.Unscoped().Model(&catalog.SourceRecord{}).
		Where("id = ?", rec.ID).
		UpdateColumn("deleted_at", nil).Error; err != nil {
		return fmt.Errorf("failed to restore source %d: %w", rec.ID, err)
	}
	rec.DeletedAt = gorm.DeletedAt{}
	return r.pipeline.Dispatch(ctx, tx, Event{Type: EventRestored, Source: rec})
}

func (r *Recorder) transaction(ctx context.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	ctx, hooks := withCommitHooks(ctx)
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	}); err != nil {
		return err
	}
	hooks.run()
	return nil
}

// ChangedFields lists the columns that differ between two versions of a record.
func ChangedFields(before, after *catalog.SourceRecord) []string {
	var changed []string
	add := func(field string, differs bool) {
		if differs {
			changed = append(changed, field)
		}
	}

	add("video_game_title_id", before.VideoGameTitleID != after.VideoGameTitleID)
	add("provider", before.Provider != after.Provider)
	add("external_id", before.ExternalID != after.ExternalID)
	add("payload", !bytes.Equal(before.Payload, after.Payload))
	add("name", !equalPtr(before.Name, after.Name))
	add("description", !equalPtr(before.Description, after.Description))
	add("rating", !equalPtr(before.Rating, after.Rating))
	add("rating_count", !equalPtr(before.RatingCount, after.RatingCount))
	add("release_date", !equalTime(before.ReleaseDate, after.ReleaseDate))
	add("developer", !equalPtr(before.Developer, after.Developer))
	add("publisher", !equalPtr(before.Publisher, after.Publisher))
	add("genre", !equalPtr(before.Genre, after.Genre))
	add("platform", !equalPtr(before.Platform, after.Platform))
	return changed
}
