package propagation_test

import (
	"context"
	"errors"
	"testing"

	"game-catalog/feature/catalog"
	"game-catalog/feature/catalog/catalogtest"
	"game-catalog/feature/propagation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestRecorder_WatchedVsUnwatched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	title := catalogtest.SeedTitle(t, h.db, "Test Game")
	src := h.createSource(t, title.ID, "igdb", "12345", catalogtest.Ptr("Test Game"))
	h.queue.drain(t)

	t.Run("external id change does not propagate", func(t *testing.T) {
		_, err := h.recorder.Update(ctx, src.ID, func(s *catalog.SourceRecord) {
			s.ExternalID = "54321"
		})
		require.NoError(t, err)
		assert.Zero(t, h.queue.len())
	})

	t.Run("rating count is not watched", func(t *testing.T) {
		_, err := h.recorder.Update(ctx, src.ID, func(s *catalog.SourceRecord) {
			s.RatingCount = catalogtest.Ptr(5)
		})
		require.NoError(t, err)
		assert.Zero(t, h.queue.len())
	})

	t.Run("no-op update does not propagate", func(t *testing.T) {
		_, err := h.recorder.Update(ctx, src.ID, func(s *catalog.SourceRecord) {
			s.Name = catalogtest.Ptr("Test Game")
		})
		require.NoError(t, err)
		assert.Zero(t, h.queue.len())
	})

	t.Run("name change propagates", func(t *testing.T) {
		_, err := h.recorder.Update(ctx, src.ID, func(s *catalog.SourceRecord) {
			s.Name = catalogtest.Ptr("Test Game: Remastered")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, h.queue.len())
		h.queue.drain(t)

		var game catalog.VideoGame
		require.NoError(t, h.db.Where("external_id = ?", "54321").First(&game).Error)
		assert.Equal(t, "Test Game: Remastered", game.Name)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := h.recorder.Update(ctx, 999, func(*catalog.SourceRecord) {})
		assert.ErrorIs(t, err, propagation.ErrSourceNotFound)
	})
}

func TestRecorder_DeleteAndRestore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	title := catalogtest.SeedTitle(t, h.db, "Test Game")
	src := h.createSource(t, title.ID, "gog", "1", catalogtest.Ptr("Test Game"))
	h.queue.drain(t)

	require.NoError(t, h.recorder.Delete(ctx, src.ID))
	assert.Zero(t, h.queue.len(), "soft delete does not propagate")
	assert.Equal(t, []string{"gog"}, []string(h.title(t, title.ID).Providers), "providers are never removed")

	restored, err := h.recorder.Restore(ctx, src.ID)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)
	assert.Equal(t, 1, h.queue.len(), "restore re-runs the created path")
	h.queue.drain(t)

	t.Run("restoring a live record is a no-op", func(t *testing.T) {
		_, err := h.recorder.Restore(ctx, src.ID)
		require.NoError(t, err)
		assert.Zero(t, h.queue.len())
	})

	t.Run("unknown ids", func(t *testing.T) {
		assert.ErrorIs(t, h.recorder.Delete(ctx, 999), propagation.ErrSourceNotFound)
		_, err := h.recorder.Restore(ctx, 999)
		assert.ErrorIs(t, err, propagation.ErrSourceNotFound)
	})
}

func TestRecorder_AddOnlyProviders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	title := catalogtest.SeedTitle(t, h.db, "Test Game")

	steps := []func(){
		func() { h.createSource(t, title.ID, "igdb", "1", nil) },
		func() { h.createSource(t, title.ID, "Steam", "2", nil) },
		func() { h.createSource(t, title.ID, "igdb", "3", nil) },
		func() { require.NoError(t, h.recorder.Delete(ctx, mustSourceID(t, h, "steam", "2"))) },
		func() { h.createSource(t, title.ID, "gog", "4", nil) },
		func() {
			_, err := h.recorder.Restore(ctx, mustSourceID(t, h, "steam", "2"))
			require.NoError(t, err)
		},
	}

	previous := 0
	for _, step := range steps {
		step()
		h.queue.drain(t)

		providers := []string(h.title(t, title.ID).Providers)
		assert.GreaterOrEqual(t, len(providers), previous)
		seen := map[string]bool{}
		for _, p := range providers {
			assert.False(t, seen[p], "duplicate provider %q", p)
			seen[p] = true
		}
		previous = len(providers)
	}
	assert.Equal(t, []string{"igdb", "steam", "gog"}, []string(h.title(t, title.ID).Providers))
}

func TestRecorder_Upsert(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	in := propagation.SourceInput{
		Title:      "Hollow Knight",
		Provider:   "GOG",
		ExternalID: "1308320804",
		Name:       catalogtest.Ptr("Hollow Knight"),
		Payload:    map[string]any{"cover": map[string]any{"url": "https://img/cover.jpg"}},
	}

	rec, created, err := h.recorder.Upsert(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "gog", rec.Provider)
	assert.Equal(t, 1, h.queue.len())
	h.queue.drain(t)

	var title catalog.Title
	require.NoError(t, h.db.First(&title, rec.VideoGameTitleID).Error)
	assert.Equal(t, "hollow-knight", title.NormalizedName)

	t.Run("second upsert updates in place", func(t *testing.T) {
		in.Developer = catalogtest.Ptr("Team Cherry")
		again, created, err := h.recorder.Upsert(ctx, in)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, rec.ID, again.ID)
		assert.Equal(t, 1, h.queue.len())
		h.queue.drain(t)
	})

	t.Run("identical upsert does not propagate", func(t *testing.T) {
		_, _, err := h.recorder.Upsert(ctx, in)
		require.NoError(t, err)
		assert.Zero(t, h.queue.len())
	})

	t.Run("upsert of a deleted record restores it", func(t *testing.T) {
		require.NoError(t, h.recorder.Delete(ctx, rec.ID))
		restored, created, err := h.recorder.Upsert(ctx, in)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, rec.ID, restored.ID)
		assert.Equal(t, 1, h.queue.len())
		h.queue.drain(t)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, bad := range []propagation.SourceInput{
			{ExternalID: "1", Title: "x"},
			{Provider: "igdb", Title: "x"},
			{Provider: "igdb", ExternalID: "1"},
			{Provider: "igdb", ExternalID: "1", TitleID: 999},
			{Provider: "igdb", ExternalID: "1", Title: "???"},
		} {
			_, _, err := h.recorder.Upsert(ctx, bad)
			assert.ErrorIs(t, err, propagation.ErrInvalidSource)
		}
	})
}

func TestRecorder_EnqueuesOnlyAfterCommit(t *testing.T) {
	h := newHarness(t)
	title := catalogtest.SeedTitle(t, h.db, "Test Game")

	boom := errors.New("later handler failed")
	bindings := append(h.engine.Bindings(), propagation.Binding{
		Event: propagation.EventCreated,
		Handler: func(context.Context, *gorm.DB, propagation.Event) error {
			return boom
		},
	})
	recorder := propagation.NewRecorder(h.db, propagation.NewPipeline(bindings...), zap.NewNop())

	err := recorder.Create(context.Background(), &catalog.SourceRecord{
		VideoGameTitleID: title.ID,
		Provider:         "igdb",
		ExternalID:       "1",
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, h.queue.len(), "rolled back writes dispatch nothing")

	var count int64
	require.NoError(t, h.db.Model(&catalog.SourceRecord{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, h.title(t, title.ID).Providers, "invariant writes are rolled back too")
}
