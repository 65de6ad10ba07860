package provider

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes the registry and discovery to handlers.
type Service struct {
	registry  *Registry
	discovery *Discovery
	logger    *zap.Logger
}

// NewService creates a new provider service.
func NewService(registry *Registry, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		registry:  registry,
		discovery: NewDiscovery(db),
		logger:    logger,
	}
}

// Mapping is one provider linked to a title.
type Mapping struct {
	Metadata
	SourceID       uint   `json:"source_id"`
	ExternalID     string `json:"external_id"`
	NumericID      *int64 `json:"numeric_external_id"`
	ProviderItemID *int64 `json:"provider_item_id"`
	PriceCapable   bool   `json:"price_capable"`
	MediaCapable   bool   `json:"media_capable"`
}

// TitleProviders is the discovery report of one title.
type TitleProviders struct {
	TitleID              uint      `json:"title_id"`
	Providers            []Mapping `json:"providers"`
	PriceProviders       []string  `json:"price_providers"`
	MediaProviders       []string  `json:"media_providers"`
	PreferredMediaSource *string   `json:"preferred_media_source"`
}

// List returns every registered provider.
func (s *Service) List() []Metadata {
	return s.registry.All()
}

// Get returns the metadata of provider.
func (s *Service) Get(provider string) Metadata {
	return s.registry.Metadata(provider)
}

// ForTitle builds the discovery report of titleID.
func (s *Service) ForTitle(ctx context.Context, titleID uint) (*TitleProviders, error) {
	mappings, err := s.discovery.ForTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	report := &TitleProviders{
		TitleID:        titleID,
		Providers:      make([]Mapping, 0, len(mappings.Sources)),
		PriceProviders: providersOf(mappings.PriceSources()),
		MediaProviders: providersOf(mappings.MediaSources()),
	}
	for _, src := range mappings.Sources {
		report.Providers = append(report.Providers, Mapping{
			Metadata:       s.registry.Metadata(src.Provider),
			SourceID:       src.ID,
			ExternalID:     src.ExternalID,
			NumericID:      mappings.ExternalID(src.Provider),
			ProviderItemID: mappings.ProviderItemID(src.Provider),
			PriceCapable:   IsPriceCapable(src.Provider),
			MediaCapable:   IsMediaCapable(src.Provider),
		})
	}
	if preferred := mappings.PreferredMediaSource(); preferred != nil {
		report.PreferredMediaSource = &preferred.Provider
	}
	return report, nil
}
