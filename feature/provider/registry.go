package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"game-catalog/core/storage"
	"game-catalog/feature/catalog"

	"github.com/gosimple/slug"
)

// CategoryUnknown is assigned to providers missing from the registry.
const CategoryUnknown = "unknown"

// Metadata describes a provider for display.
type Metadata struct {
	Provider    string         `json:"provider"`
	ProviderKey string         `json:"provider_key"`
	DisplayName string         `json:"display_name"`
	Category    string         `json:"category"`
	Slug        string         `json:"slug"`
	BaseURL     *string        `json:"base_url"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func known(provider, key, name, category, baseURL string) Metadata {
	return Metadata{
		Provider:    provider,
		ProviderKey: key,
		DisplayName: name,
		Category:    category,
		Slug:        slug.Make(name),
		BaseURL:     &baseURL,
	}
}

func builtins() []Metadata {
	return []Metadata{
		known("igdb", "igdb", "IGDB", "catalogue", "https://www.igdb.com"),
		known("tgdb", "tgdb", "TheGamesDB", "catalogue", "https://thegamesdb.net"),
		known("rawg", "rawg", "RAWG", "catalogue", "https://rawg.io"),
		known("giantbomb", "giantbomb", "Giant Bomb", "catalogue", "https://www.giantbomb.com"),
		known("steam", "steam", "Steam", "storefront", "https://store.steampowered.com"),
		known("steam_store", "steam", "Steam Store", "storefront", "https://store.steampowered.com"),
		known("playstation", "playstation", "PlayStation", "storefront", "https://www.playstation.com"),
		known("playstation_store", "playstation", "PlayStation Store", "storefront", "https://store.playstation.com"),
		known("xbox", "xbox", "Xbox", "storefront", "https://www.xbox.com"),
		known("xbox_store", "xbox", "Xbox Store", "storefront", "https://www.xbox.com/games/store"),
		known("gog", "gog", "GOG", "storefront", "https://www.gog.com"),
		known("epic", "epic", "Epic Games Store", "storefront", "https://store.epicgames.com"),
		known("nexarda", "nexarda", "NEXARDA", "price_aggregator", "https://www.nexarda.com"),
		known("itad", "itad", "IsThereAnyDeal", "price_aggregator", "https://isthereanydeal.com"),
	}
}

// Registry resolves provider strings to display metadata. It never fails:
// unknown providers get a synthesized entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Metadata
}

// NewRegistry creates a registry holding the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Metadata)}
	for _, m := range builtins() {
		r.entries[m.Provider] = m
	}
	return r
}

// Metadata returns the entry for provider, matched case-insensitively.
func (r *Registry) Metadata(provider string) Metadata {
	key := catalog.NormalizeProvider(provider)

	r.mu.RLock()
	m, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return m
	}

	return Metadata{
		Provider:    key,
		ProviderKey: key,
		DisplayName: strings.ToUpper(key),
		Category:    CategoryUnknown,
		Slug:        slug.Make(key),
	}
}

// All returns every registered entry sorted by provider.
func (r *Registry) All() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.entries))
	for _, m := range r.entries {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// Override replaces or adds entries. Missing fields are derived from the
// provider string.
func (r *Registry) Override(entries []Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range entries {
		m.Provider = catalog.NormalizeProvider(m.Provider)
		if m.Provider == "" {
			continue
		}
		if m.ProviderKey == "" {
			m.ProviderKey = m.Provider
		}
		if m.DisplayName == "" {
			m.DisplayName = strings.ToUpper(m.Provider)
		}
		if m.Category == "" {
			m.Category = CategoryUnknown
		}
		if m.Slug == "" {
			m.Slug = slug.Make(m.DisplayName)
		}
		r.entries[m.Provider] = m
	}
}

// LoadFromStorage applies the override document stored as object in bucket.
// A missing document is not an error. It returns the number of entries applied.
func (r *Registry) LoadFromStorage(ctx context.Context, client storage.Client, bucket, object string) (int, error) {
	var doc struct {
		Providers []Metadata `json:"providers"`
	}
	if err := storage.ReadJSON(ctx, client, bucket, object, &doc); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load provider registry: %w", err)
	}

	r.Override(doc.Providers)
	return len(doc.Providers), nil
}
