package propagation

import (
	"context"
	"errors"
	"fmt"

	"game-catalog/feature/catalog"
	"game-catalog/feature/provider"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTitleMissing is returned when a source record points at no title.
var ErrTitleMissing = errors.New("source title does not exist")

// Invariants owns every mutation of shared aggregate fields: provider
// registrations, item counts and the provider lists of titles and products.
// All operations are idempotent and add-only.
type Invariants struct {
	registry *provider.Registry
	logger   *zap.Logger
}

// NewInvariants creates the invariant enforcer.
func NewInvariants(registry *provider.Registry, logger *zap.Logger) *Invariants {
	return &Invariants{registry: registry, logger: logger}
}

// Enforce links src to its provider registration and adds its provider to the
// owning title and product.
func (i *Invariants) Enforce(ctx context.Context, tx *gorm.DB, src *catalog.SourceRecord) error {
	if err := i.EnsureRegistration(ctx, tx, src); err != nil {
		return err
	}

	var title catalog.Title
	if err := tx.WithContext(ctx).Select("id", "product_id").First(&title, src.VideoGameTitleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: title %d", ErrTitleMissing, src.VideoGameTitleID)
		}
		return fmt.Errorf("failed to load title %d: %w", src.VideoGameTitleID, err)
	}

	if err := i.EnsureTitleProvider(ctx, tx, title.ID, src.Provider); err != nil {
		return err
	}
	return i.EnsureProductProvider(ctx, tx, title.ProductID, src.Provider)
}

// EnsureRegistration links src to the registration of its provider, creating
// the registration on first sight.
func (i *Invariants) EnsureRegistration(ctx context.Context, tx *gorm.DB, src *catalog.SourceRecord) error {
	if src.VideoGameSourceID != nil {
		return nil
	}

	reg, err := i.Registration(ctx, tx, src.Provider)
	if err != nil {
		return err
	}

	if err := tx.WithContext(ctx).Model(&catalog.SourceRecord{}).
		Where("id = ?", src.ID).
		UpdateColumn("video_game_source_id", reg.ID).Error; err != nil {
		return fmt.Errorf("failed to link source %d to registration: %w", src.ID, err)
	}
	src.VideoGameSourceID = &reg.ID
	return nil
}

// Registration resolves or creates the registration of provider. When two
// writers race the first insert wins and its display metadata is kept.
func (i *Invariants) Registration(ctx context.Context, tx *gorm.DB, providerName string) (*catalog.VideoGameSource, error) {
	providerName = catalog.NormalizeProvider(providerName)
	meta := i.registry.Metadata(providerName)

	reg := catalog.VideoGameSource{
		Provider:    providerName,
		DisplayName: meta.DisplayName,
		Category:    meta.Category,
		Slug:        meta.Slug,
		BaseURL:     meta.BaseURL,
		Metadata:    datatypes.JSONMap(meta.Metadata),
	}
	if reg.Metadata == nil {
		reg.Metadata = datatypes.JSONMap{}
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "provider"}}, DoNothing: true}).
		Create(&reg).Error; err != nil {
		return nil, fmt.Errorf("failed to create registration for %s: %w", providerName, err)
	}

	var stored catalog.VideoGameSource
	if err := tx.WithContext(ctx).Where("provider = ?", providerName).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load registration for %s: %w", providerName, err)
	}
	return &stored, nil
}

// EnsureTitleProvider adds providerName to the title's provider set.
func (i *Invariants) EnsureTitleProvider(ctx context.Context, tx *gorm.DB, titleID uint, providerName string) error {
	var title catalog.Title
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "providers").
		First(&title, titleID).Error; err != nil {
		return fmt.Errorf("failed to lock title %d: %w", titleID, err)
	}

	next, changed := catalog.AddProvider(title.Providers, providerName)
	if !changed {
		return nil
	}

	if err := tx.WithContext(ctx).Model(&catalog.Title{}).
		Where("id = ?", titleID).
		Update("providers", datatypes.JSONSlice[string](next)).Error; err != nil {
		return fmt.Errorf("failed to update providers of title %d: %w", titleID, err)
	}
	i.logger.Debug("Added provider to title", zap.Uint("title_id", titleID), zap.String("provider", providerName))
	return nil
}

// EnsureProductProvider adds providerName to the product's metadata providers.
func (i *Invariants) EnsureProductProvider(ctx context.Context, tx *gorm.DB, productID uint, providerName string) error {
	var product catalog.Product
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "metadata").
		First(&product, productID).Error; err != nil {
		return fmt.Errorf("failed to lock product %d: %w", productID, err)
	}

	meta := product.Metadata.Data()
	if !meta.AddProvider(providerName) {
		return nil
	}

	if err := tx.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ?", productID).
		Update("metadata", datatypes.NewJSONType(meta)).Error; err != nil {
		return fmt.Errorf("failed to update metadata of product %d: %w", productID, err)
	}
	return nil
}

// RecomputeItemsCount sets the registration's items count to the number of
// distinct external ids among the provider's live source records.
func (i *Invariants) RecomputeItemsCount(ctx context.Context, tx *gorm.DB, providerName string) (int64, error) {
	providerName = catalog.NormalizeProvider(providerName)

	var count int64
	if err := tx.WithContext(ctx).Model(&catalog.SourceRecord{}).
		Where("provider = ?", providerName).
		Distinct("external_id").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count items of %s: %w", providerName, err)
	}

	if err := tx.WithContext(ctx).Model(&catalog.VideoGameSource{}).
		Where("provider = ?", providerName).
		UpdateColumn("items_count", count).Error; err != nil {
		return 0, fmt.Errorf("failed to store items count of %s: %w", providerName, err)
	}
	return count, nil
}
