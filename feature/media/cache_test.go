package media

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewViewCache(time.Minute)
	c.now = func() time.Time { return now }

	var builds int
	build := func(context.Context) (*View, error) {
		builds++
		return &View{ProductID: 1}, nil
	}

	_, err := c.GetOrBuild(context.Background(), 1, build)
	require.NoError(t, err)
	_, err = c.GetOrBuild(context.Background(), 1, build)
	require.NoError(t, err)
	assert.Equal(t, 1, builds)

	now = now.Add(2 * time.Minute)
	_, err = c.GetOrBuild(context.Background(), 1, build)
	require.NoError(t, err)
	assert.Equal(t, 2, builds)
}

func TestViewCache_Invalidate(t *testing.T) {
	c := NewViewCache(time.Hour)
	var builds int
	build := func(context.Context) (*View, error) {
		builds++
		return &View{ProductID: 3}, nil
	}

	_, _ = c.GetOrBuild(context.Background(), 3, build)
	assert.Equal(t, 1, c.Len())

	c.Invalidate(3)
	assert.Equal(t, 0, c.Len())

	_, _ = c.GetOrBuild(context.Background(), 3, build)
	assert.Equal(t, 2, builds)
}

func TestViewCache_InvalidateDuringBuildSkipsStore(t *testing.T) {
	c := NewViewCache(time.Hour)
	var builds int
	build := func(context.Context) (*View, error) {
		builds++
		if builds == 1 {
			// Rows changed while this build was reading them.
			c.Invalidate(4)
		}
		return &View{ProductID: 4, TotalCount: builds}, nil
	}

	view, err := c.GetOrBuild(context.Background(), 4, build)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalCount, "the caller still gets the built view")
	assert.Equal(t, 0, c.Len(), "a build overlapping an invalidation is not stored")

	view, err = c.GetOrBuild(context.Background(), 4, build)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalCount)
	assert.Equal(t, 1, c.Len())

	view, err = c.GetOrBuild(context.Background(), 4, build)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalCount)
	assert.Equal(t, 2, builds)
}

func TestViewCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := NewViewCache(0)
	var builds int
	build := func(context.Context) (*View, error) {
		builds++
		return &View{}, nil
	}

	_, _ = c.GetOrBuild(context.Background(), 1, build)
	_, _ = c.GetOrBuild(context.Background(), 1, build)
	assert.Equal(t, 2, builds)
	assert.Equal(t, 0, c.Len())
}

func TestViewCache_ErrorsAreNotCached(t *testing.T) {
	c := NewViewCache(time.Hour)
	boom := errors.New("boom")

	_, err := c.GetOrBuild(context.Background(), 1, func(context.Context) (*View, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestViewCache_ConcurrentMissesBuildOnce(t *testing.T) {
	c := NewViewCache(time.Hour)
	var builds atomic.Int32
	build := func(context.Context) (*View, error) {
		builds.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &View{ProductID: 5}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrBuild(context.Background(), 5, build)
			assert.NoError(t, err)
			assert.Equal(t, uint(5), v.ProductID)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
}
