package propagation

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"game-catalog/core/reconcile"
	"game-catalog/feature/catalog"

	"gorm.io/gorm"
)

// ProviderCount is one side of the providers audit.
type ProviderCount struct {
	Provider   string
	Registered bool
	ItemsCount int64
}

// ProviderCountAdapter audits provider registrations and their items counts.
type ProviderCountAdapter struct {
	invariants *Invariants
}

// NewProviderCountAdapter creates the providers adapter.
func NewProviderCountAdapter(inv *Invariants) *ProviderCountAdapter {
	return &ProviderCountAdapter{invariants: inv}
}

func (a *ProviderCountAdapter) Name() string { return "providers" }

// LoadStored returns every registration keyed by provider.
func (a *ProviderCountAdapter) LoadStored(ctx context.Context, db *gorm.DB) (map[string]reconcile.Item, error) {
	var regs []catalog.VideoGameSource
	if err := db.WithContext(ctx).Select("provider", "items_count").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	out := make(map[string]reconcile.Item, len(regs))
	for _, r := range regs {
		out[r.Provider] = ProviderCount{Provider: r.Provider, Registered: true, ItemsCount: r.ItemsCount}
	}
	return out, nil
}

// LoadDerived counts distinct external ids per provider over live sources.
func (a *ProviderCountAdapter) LoadDerived(ctx context.Context, db *gorm.DB) (map[string]reconcile.Item, error) {
	var rows []struct {
		Provider string
		Items    int64
	}
	if err := db.WithContext(ctx).Model(&catalog.SourceRecord{}).
		Select("provider, COUNT(DISTINCT external_id) AS items").
		Group("provider").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}

	out := make(map[string]reconcile.Item, len(rows))
	for _, r := range rows {
		out[r.Provider] = ProviderCount{Provider: r.Provider, ItemsCount: r.Items}
	}
	return out, nil
}

func (a *ProviderCountAdapter) ResolveName(stored, derived reconcile.Item) string {
	if s, ok := stored.(ProviderCount); ok {
		return a.invariants.registry.Metadata(s.Provider).DisplayName
	}
	if d, ok := derived.(ProviderCount); ok {
		return a.invariants.registry.Metadata(d.Provider).DisplayName
	}
	return ""
}

func (a *ProviderCountAdapter) Compare(stored, derived reconcile.Item) []string {
	s, hasStored := stored.(ProviderCount)
	d, hasDerived := derived.(ProviderCount)

	switch {
	case !hasStored && hasDerived:
		return []string{"registration: missing"}
	case hasStored && !hasDerived:
		if s.ItemsCount != 0 {
			return []string{fmt.Sprintf("items_count: stored=%d derived=0", s.ItemsCount)}
		}
		return nil
	case hasStored && hasDerived && s.ItemsCount != d.ItemsCount:
		return []string{fmt.Sprintf("items_count: stored=%d derived=%d", s.ItemsCount, d.ItemsCount)}
	}
	return nil
}

// Repair creates the registration when missing, links unlinked sources and
// recomputes the items count.
func (a *ProviderCountAdapter) Repair(ctx context.Context, db *gorm.DB, key string, _ reconcile.Item) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg, err := a.invariants.Registration(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := tx.Model(&catalog.SourceRecord{}).
			Where("provider = ? AND video_game_source_id IS NULL", key).
			UpdateColumn("video_game_source_id", reg.ID).Error; err != nil {
			return fmt.Errorf("failed to link sources of %s: %w", key, err)
		}
		_, err = a.invariants.RecomputeItemsCount(ctx, tx, key)
		return err
	})
}

// TitleProviders is one side of the titles audit.
type TitleProviders struct {
	TitleID          uint
	ProductID        uint
	Name             string
	TitleProviders   []string
	ProductProviders []string
}

// TitleProvidersAdapter audits the provider lists of titles and products
// against the providers of their live sources. Lists are add-only, so extra
// entries are never reported.
type TitleProvidersAdapter struct {
	invariants *Invariants
}

// NewTitleProvidersAdapter creates the titles adapter.
func NewTitleProvidersAdapter(inv *Invariants) *TitleProvidersAdapter {
	return &TitleProvidersAdapter{invariants: inv}
}

func (a *TitleProvidersAdapter) Name() string { return "titles" }

// LoadStored returns each title with its own and its product's providers.
func (a *TitleProvidersAdapter) LoadStored(ctx context.Context, db *gorm.DB) (map[string]reconcile.Item, error) {
	var titles []catalog.Title
	if err := db.WithContext(ctx).Select("id", "product_id", "name", "providers").Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	var products []catalog.Product
	if err := db.WithContext(ctx).Select("id", "metadata").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	productProviders := make(map[uint][]string, len(products))
	for _, p := range products {
		productProviders[p.ID] = p.Metadata.Data().Providers
	}

	out := make(map[string]reconcile.Item, len(titles))
	for _, t := range titles {
		out[titleKey(t.ID)] = TitleProviders{
			TitleID:          t.ID,
			ProductID:        t.ProductID,
			Name:             t.Name,
			TitleProviders:   t.Providers,
			ProductProviders: productProviders[t.ProductID],
		}
	}
	return out, nil
}

// LoadDerived returns the distinct providers of each title's live sources.
func (a *TitleProvidersAdapter) LoadDerived(ctx context.Context, db *gorm.DB) (map[string]reconcile.Item, error) {
	var rows []struct {
		VideoGameTitleID uint
		Provider         string
	}
	if err := db.WithContext(ctx).Model(&catalog.SourceRecord{}).
		Distinct("video_game_title_id", "provider").
		Order("video_game_title_id, provider").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load source providers: %w", err)
	}

	out := make(map[string]reconcile.Item)
	for _, r := range rows {
		key := titleKey(r.VideoGameTitleID)
		item, _ := out[key].(TitleProviders)
		item.TitleID = r.VideoGameTitleID
		item.TitleProviders, _ = catalog.AddProvider(item.TitleProviders, r.Provider)
		out[key] = item
	}
	return out, nil
}

func (a *TitleProvidersAdapter) ResolveName(stored, _ reconcile.Item) string {
	if s, ok := stored.(TitleProviders); ok {
		return s.Name
	}
	return ""
}

func (a *TitleProvidersAdapter) Compare(stored, derived reconcile.Item) []string {
	s, hasStored := stored.(TitleProviders)
	d, hasDerived := derived.(TitleProviders)
	if !hasDerived {
		return nil
	}
	if !hasStored {
		return []string{"title: missing"}
	}

	var mismatch []string
	if missing := missingFrom(s.TitleProviders, d.TitleProviders); len(missing) > 0 {
		mismatch = append(mismatch, "title.providers missing: "+strings.Join(missing, ","))
	}
	if missing := missingFrom(s.ProductProviders, d.TitleProviders); len(missing) > 0 {
		mismatch = append(mismatch, "product.providers missing: "+strings.Join(missing, ","))
	}
	return mismatch
}

// RepairBatch adds every derived provider to its title and product in one
// transaction. Actions for titles that no longer exist are skipped.
func (a *TitleProvidersAdapter) RepairBatch(ctx context.Context, db *gorm.DB, actions []reconcile.Action) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, action := range actions {
			derived, ok := action.Derived.(TitleProviders)
			if !ok {
				continue
			}

			var title catalog.Title
			err := tx.Select("id", "product_id").Where("id = ?", derived.TitleID).Limit(1).Find(&title).Error
			if err != nil {
				return fmt.Errorf("failed to load title %d: %w", derived.TitleID, err)
			}
			if title.ID == 0 {
				continue
			}

			for _, p := range derived.TitleProviders {
				if err := a.invariants.EnsureTitleProvider(ctx, tx, title.ID, p); err != nil {
					return err
				}
				if err := a.invariants.EnsureProductProvider(ctx, tx, title.ProductID, p); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func titleKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func missingFrom(have, want []string) []string {
	var missing []string
	for _, p := range want {
		if !slices.Contains(have, p) {
			missing = append(missing, p)
		}
	}
	return missing
}
