package provider

import (
	"context"
	"errors"
	"fmt"

	"game-catalog/core/utils"
	"game-catalog/feature/catalog"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested title or game does not exist.
var ErrNotFound = errors.New("not found")

var (
	priceCapable = map[string]bool{
		"steam": true, "steam_store": true, "playstation_store": true,
		"xbox": true, "gog": true, "epic": true,
	}
	mediaCapable = map[string]bool{
		"igdb": true, "tgdb": true, "steam": true, "rawg": true,
	}
	mediaPreference = []string{"igdb", "tgdb", "steam"}
)

// IsPriceCapable reports whether provider supplies prices.
func IsPriceCapable(provider string) bool {
	return priceCapable[catalog.NormalizeProvider(provider)]
}

// IsMediaCapable reports whether provider supplies media.
func IsMediaCapable(provider string) bool {
	return mediaCapable[catalog.NormalizeProvider(provider)]
}

// Mappings is the set of live source records linked to one title.
type Mappings struct {
	TitleID uint
	Sources []catalog.SourceRecord
}

// Providers returns the distinct providers in first-seen order.
func (m *Mappings) Providers() []string {
	var out []string
	for _, src := range m.Sources {
		out, _ = catalog.AddProvider(out, src.Provider)
	}
	return out
}

// PriceSources returns the records of price-capable providers.
func (m *Mappings) PriceSources() []catalog.SourceRecord {
	return m.filter(IsPriceCapable)
}

// MediaSources returns the records of media-capable providers.
func (m *Mappings) MediaSources() []catalog.SourceRecord {
	return m.filter(IsMediaCapable)
}

// PreferredMediaSource returns the first present provider in the order
// igdb, tgdb, steam, or nil.
func (m *Mappings) PreferredMediaSource() *catalog.SourceRecord {
	for _, provider := range mediaPreference {
		if src := m.find(provider); src != nil {
			return src
		}
	}
	return nil
}

// ExternalID returns provider's external id as an integer, or nil when the
// provider is unmapped or the id is not numeric.
func (m *Mappings) ExternalID(provider string) *int64 {
	src := m.find(provider)
	if src == nil {
		return nil
	}
	if id, ok := utils.ToInt64(src.ExternalID); ok {
		return &id
	}
	return nil
}

// ProviderItemID returns the provider_item_id carried in provider's payload.
func (m *Mappings) ProviderItemID(provider string) *int64 {
	src := m.find(provider)
	if src == nil {
		return nil
	}
	payload, err := catalog.DecodePayload(src.Payload)
	if err != nil {
		return nil
	}
	if id, ok := utils.ToInt64(payload["provider_item_id"]); ok {
		return &id
	}
	return nil
}

func (m *Mappings) find(provider string) *catalog.SourceRecord {
	provider = catalog.NormalizeProvider(provider)
	for i := range m.Sources {
		if m.Sources[i].Provider == provider {
			return &m.Sources[i]
		}
	}
	return nil
}

func (m *Mappings) filter(keep func(string) bool) []catalog.SourceRecord {
	out := []catalog.SourceRecord{}
	for _, src := range m.Sources {
		if keep(src.Provider) {
			out = append(out, src)
		}
	}
	return out
}

// Discovery loads provider mappings from the catalog.
type Discovery struct {
	db *gorm.DB
}

// NewDiscovery creates a Discovery over db.
func NewDiscovery(db *gorm.DB) *Discovery {
	return &Discovery{db: db}
}

// ForTitle returns the live source records of titleID ordered by id.
func (d *Discovery) ForTitle(ctx context.Context, titleID uint) (*Mappings, error) {
	var title catalog.Title
	if err := d.db.WithContext(ctx).Select("id").First(&title, titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load title %d: %w", titleID, err)
	}

	var sources []catalog.SourceRecord
	if err := d.db.WithContext(ctx).
		Where("video_game_title_id = ?", titleID).
		Order("id").
		Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to load sources for title %d: %w", titleID, err)
	}
	return &Mappings{TitleID: titleID, Sources: sources}, nil
}

// ForGame returns the mappings of the title gameID belongs to.
func (d *Discovery) ForGame(ctx context.Context, gameID uint) (*Mappings, error) {
	var game catalog.VideoGame
	if err := d.db.WithContext(ctx).Select("id", "video_game_title_id").First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	return d.ForTitle(ctx, game.VideoGameTitleID)
}

func providersOf(sources []catalog.SourceRecord) []string {
	out := []string{}
	for _, src := range sources {
		out, _ = catalog.AddProvider(out, src.Provider)
	}
	return out
}
