package catalog

import (
	"context"
	"fmt"
	"testing"

	"game-catalog/core/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTitleDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCreateTitle_LosesRaceToExistingTitle(t *testing.T) {
	db := newTitleDB(t)
	ctx := context.Background()

	var winner *Title
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		winner, err = EnsureTitle(ctx, tx, "Hollow Knight", "")
		return err
	}))

	// A second writer that missed the lookup still lands on the same title.
	var loser *Title
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		loser, err = createTitle(ctx, tx, "Hollow Knight", "hollow-knight", ProductTypeGame)
		return err
	}))
	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, winner.ProductID, loser.ProductID)

	var products, titles int64
	require.NoError(t, db.Model(&Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&Title{}).Count(&titles).Error)
	assert.Equal(t, int64(1), products, "the losing product is removed")
	assert.Equal(t, int64(1), titles)
}

func TestTitle_NormalizedNameIsUnique(t *testing.T) {
	db := newTitleDB(t)

	first := Title{ProductID: 1, NormalizedName: "celeste", Slug: "celeste"}
	require.NoError(t, db.Create(&first).Error)

	dup := Title{ProductID: 2, NormalizedName: "celeste", Slug: "celeste-2"}
	assert.Error(t, db.Create(&dup).Error)
}
