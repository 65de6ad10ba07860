package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductTypeGame is the default product type.
const ProductTypeGame = "game"

// ErrEmptyTitle is returned when a title name normalizes to nothing.
var ErrEmptyTitle = errors.New("title name is empty")

// NormalizeTitle lowercases name and replaces every rune that is not an ASCII
// letter or digit with '-', then trims leading and trailing dashes.
func NormalizeTitle(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	return strings.Trim(b.String(), "-")
}

// EnsureTitle returns the Title whose normalized name matches name, creating
// the Product and Title on first sight. It must run inside a transaction.
func EnsureTitle(ctx context.Context, tx *gorm.DB, name, productType string) (*Title, error) {
	normalized := NormalizeTitle(name)
	if normalized == "" {
		return nil, ErrEmptyTitle
	}
	if productType == "" {
		productType = ProductTypeGame
	}

	var title Title
	err := tx.WithContext(ctx).Where("normalized_name = ?", normalized).First(&title).Error
	if err == nil {
		return &title, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find title %q: %w", normalized, err)
	}
	return createTitle(ctx, tx, name, normalized, productType)
}

// createTitle inserts the Product and Title. When a concurrent writer wins the
// normalized name, the fresh Product is removed and the winner is returned.
func createTitle(ctx context.Context, tx *gorm.DB, name, normalized, productType string) (*Title, error) {
	productSlug, err := uniqueSlug(ctx, tx, &Product{}, slug.Make(name))
	if err != nil {
		return nil, err
	}
	product := Product{
		Slug:     productSlug,
		Name:     strings.TrimSpace(name),
		Type:     productType,
		Metadata: datatypes.NewJSONType(ProductMetadata{Providers: []string{}}),
	}
	if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	titleSlug, err := uniqueSlug(ctx, tx, &Title{}, productSlug)
	if err != nil {
		return nil, err
	}
	title := Title{
		ProductID:      product.ID,
		Name:           product.Name,
		NormalizedName: normalized,
		Slug:           titleSlug,
		Providers:      datatypes.JSONSlice[string]{},
	}
	res := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "normalized_name"}}, DoNothing: true}).
		Create(&title)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create title: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return &title, nil
	}

	if err := tx.WithContext(ctx).Delete(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to drop product %d: %w", product.ID, err)
	}
	var existing Title
	if err := tx.WithContext(ctx).Where("normalized_name = ?", normalized).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to reload title %q: %w", normalized, err)
	}
	return &existing, nil
}

// uniqueSlug appends -2, -3, ... until base is free in model's table.
func uniqueSlug(ctx context.Context, tx *gorm.DB, model any, base string) (string, error) {
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.WithContext(ctx).Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
