package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&FailedJob{}))
	return db
}

func TestGormFailedJobStore(t *testing.T) {
	ctx := context.Background()
	store := NewFailedJobStore(setupTestDB(t))

	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, FailedJob{Job: "propagate-source", Attempts: 3, Error: "a", FailedAt: older}))
	require.NoError(t, store.Record(ctx, FailedJob{Job: "propagate-media", Attempts: 1, Error: "b"}))

	jobs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "propagate-media", jobs[0].Job)
	assert.NotEmpty(t, jobs[0].ID)
	assert.Equal(t, "propagate-source", jobs[1].Job)
	assert.True(t, jobs[1].FailedAt.Equal(older))
}
