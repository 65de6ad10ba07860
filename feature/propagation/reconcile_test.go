package propagation_test

import (
	"context"
	"testing"

	"game-catalog/core/reconcile"
	"game-catalog/feature/catalog"
	"game-catalog/feature/catalog/catalogtest"
	"game-catalog/feature/propagation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProviderCountAdapter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	title := catalogtest.SeedTitle(t, h.db, "Test Game")
	h.createSource(t, title.ID, "igdb", "1", nil)
	h.createSource(t, title.ID, "steam", "2", nil)
	h.queue.drain(t)

	// A source written behind the pipeline's back, plus a drifted counter.
	require.NoError(t, h.db.Create(&catalog.SourceRecord{VideoGameTitleID: title.ID, Provider: "rawg", ExternalID: "3"}).Error)
	require.NoError(t, h.db.Model(&catalog.VideoGameSource{}).Where("provider = ?", "steam").UpdateColumn("items_count", 7).Error)

	spec := &reconcile.Spec{Adapter: propagation.NewProviderCountAdapter(h.engine.Invariants())}

	plan, err := reconcile.ReconcileWithPlan(ctx, spec, h.db, reconcile.ReconcileOptions{DoSync: true})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Summary.TotalItems)
	assert.Equal(t, 1, plan.Summary.MissingStored)
	assert.Equal(t, 2, plan.Summary.Mismatches)
	assert.Equal(t, 2, plan.Summary.RepairActions)

	byKey := map[string]reconcile.ReconcileResult{}
	for _, r := range plan.Results {
		byKey[r.Key] = r
	}
	assert.Equal(t, []string{"registration: missing"}, byKey["rawg"].Mismatch)
	assert.Equal(t, []string{"items_count: stored=7 derived=1"}, byKey["steam"].Mismatch)
	assert.Empty(t, byKey["igdb"].Mismatch)
	assert.Equal(t, "IGDB", byKey["igdb"].Name)

	t.Run("dry run executes nothing", func(t *testing.T) {
		n, err := reconcile.ApplyPlan(ctx, spec, h.db, plan, reconcile.ReconcileOptions{DoSync: true, DryRun: true, Confirmed: true})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, int64(7), h.registration(t, "steam").ItemsCount)
	})

	t.Run("confirmed plan repairs", func(t *testing.T) {
		n, err := reconcile.ApplyPlan(ctx, spec, h.db, plan, reconcile.ReconcileOptions{DoSync: true, Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.Equal(t, int64(1), h.registration(t, "steam").ItemsCount)
		rawg := h.registration(t, "rawg")
		assert.Equal(t, int64(1), rawg.ItemsCount)

		var src catalog.SourceRecord
		require.NoError(t, h.db.Where("provider = ?", "rawg").First(&src).Error)
		require.NotNil(t, src.VideoGameSourceID)
		assert.Equal(t, rawg.ID, *src.VideoGameSourceID)

		results, err := reconcile.ReconcileAll(ctx, spec, h.db)
		require.NoError(t, err)
		for _, r := range results {
			assert.Empty(t, r.Mismatch, r.Key)
		}
	})
}

func TestTitleProvidersAdapter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	title := catalogtest.SeedTitle(t, h.db, "Test Game")
	h.createSource(t, title.ID, "igdb", "1", nil)
	h.queue.drain(t)

	// Drop igdb from the title and add a source directly.
	require.NoError(t, h.db.Model(&catalog.Title{}).Where("id = ?", title.ID).
		Update("providers", datatypes.JSONSlice[string]{"legacy"}).Error)
	require.NoError(t, h.db.Create(&catalog.SourceRecord{VideoGameTitleID: title.ID, Provider: "gog", ExternalID: "2"}).Error)

	spec := &reconcile.Spec{Adapter: propagation.NewTitleProvidersAdapter(h.engine.Invariants())}
	opts := reconcile.ReconcileOptions{DoSync: true, Confirmed: true}

	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, h.db, opts)
	require.NoError(t, err)
	require.Len(t, plan.Results, 1)
	assert.Equal(t, "Test Game", plan.Results[0].Name)
	assert.Equal(t, []string{
		"title.providers missing: gog,igdb",
		"product.providers missing: gog",
	}, plan.Results[0].Mismatch)
	assert.Equal(t, 1, executed)

	assert.Equal(t, []string{"legacy", "gog", "igdb"}, []string(h.title(t, title.ID).Providers), "repairs are add-only")

	var product catalog.Product
	require.NoError(t, h.db.First(&product, title.ProductID).Error)
	assert.ElementsMatch(t, []string{"igdb", "gog"}, product.Metadata.Data().Providers)

	again, err := reconcile.ReconcileAll(ctx, spec, h.db)
	require.NoError(t, err)
	assert.Empty(t, again[0].Mismatch)
}
