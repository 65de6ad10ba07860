package media

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service serves ranked media views.
type Service struct {
	store  *Store
	cache  *ViewCache
	logger *zap.Logger
}

// NewService creates a media service. cache may be nil.
func NewService(db *gorm.DB, cache *ViewCache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewViewCache(0)
	}
	return &Service{store: NewStore(db), cache: cache, logger: logger}
}

// ProductMedia returns the media view of productID.
func (s *Service) ProductMedia(ctx context.Context, productID uint) (*View, error) {
	return s.cache.GetOrBuild(ctx, productID, func(ctx context.Context) (*View, error) {
		c, err := s.store.LoadForProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		return NewView(productID, c), nil
	})
}
