// Package catalogtest provides an in-memory catalog database and seed helpers
// for tests.
package catalogtest

import (
	"context"
	"fmt"
	"testing"

	"game-catalog/core/database"
	"game-catalog/feature/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, catalog.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedTitle creates the Product and Title for name.
func SeedTitle(t testing.TB, db *gorm.DB, name string) *catalog.Title {
	t.Helper()

	var title *catalog.Title
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		title, err = catalog.EnsureTitle(context.Background(), tx, name, catalog.ProductTypeGame)
		return err
	})
	require.NoError(t, err)
	return title
}

// SeedGame creates a VideoGame for title.
func SeedGame(t testing.TB, db *gorm.DB, titleID uint, provider, externalID, name string) *catalog.VideoGame {
	t.Helper()

	game := catalog.VideoGame{
		VideoGameTitleID: titleID,
		Provider:         provider,
		ExternalID:       externalID,
		Name:             name,
	}
	require.NoError(t, db.Create(&game).Error)
	return &game
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
