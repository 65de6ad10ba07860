package integrity

import (
	"context"

	"game-catalog/core/storage"
	"game-catalog/feature/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db             *gorm.DB
	client         storage.Client
	bucket         string
	registryObject string
	logger         *zap.Logger
}

// NewService creates a new integrity service. client may be nil.
func NewService(db *gorm.DB, client storage.Client, bucket, registryObject string, logger *zap.Logger) *Service {
	return &Service{
		db:             db,
		client:         client,
		bucket:         bucket,
		registryObject: registryObject,
		logger:         logger,
	}
}

// CheckSchema checks the catalog tables.
func (s *Service) CheckSchema(ctx context.Context) (*SchemaReport, error) {
	return CheckSchema(ctx, s.db, catalog.Models())
}

// CheckStorage checks the bucket and the registry document.
func (s *Service) CheckStorage(ctx context.Context) *StorageReport {
	return CheckStorage(ctx, s.client, s.bucket, s.registryObject)
}
