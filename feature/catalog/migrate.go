package catalog

import (
	"fmt"

	"game-catalog/core/queue"

	"gorm.io/gorm"
)

// Models lists every table owned by the catalog, in dependency order.
func Models() []any {
	return []any{
		&Product{},
		&Title{},
		&VideoGameSource{},
		&SourceRecord{},
		&VideoGame{},
		&Image{},
		&Video{},
		&queue.FailedJob{},
	}
}

// Migrate creates or updates the catalog schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}
