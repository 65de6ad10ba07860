package media

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// View is the rendered media summary of one product.
type View struct {
	ProductID    uint   `json:"product_id"`
	PrimaryImage *Item  `json:"primary_image"`
	PrimaryCover *Item  `json:"primary_cover_image"`
	PrimaryVideo *Item  `json:"primary_video"`
	Gallery      []Item `json:"gallery"`
	Trailers     []Item `json:"trailers"`
	ImageCount   int    `json:"image_count"`
	VideoCount   int    `json:"video_count"`
	TotalCount   int    `json:"total_count"`
}

// NewView renders every view of c.
func NewView(productID uint, c *Collection) *View {
	return &View{
		ProductID:    productID,
		PrimaryImage: c.PrimaryImage(),
		PrimaryCover: c.PrimaryCoverImage(),
		PrimaryVideo: c.PrimaryVideo(),
		Gallery:      c.Gallery(),
		Trailers:     c.Trailers(),
		ImageCount:   c.ImageCount(),
		VideoCount:   c.VideoCount(),
		TotalCount:   c.TotalCount(),
	}
}

type cachedView struct {
	view  *View
	built time.Time
}

// ViewCache holds rendered views per product for a fixed TTL. Concurrent
// misses for one product share a single build. A build that overlaps an
// Invalidate of the same product is returned but not stored.
type ViewCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[uint]cachedView
	gens    map[uint]uint64
	sf      singleflight.Group
}

// NewViewCache creates a cache. A zero ttl disables caching.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uint]cachedView),
		gens:    make(map[uint]uint64),
	}
}

func (c *ViewCache) fresh(e cachedView) bool {
	return c.ttl > 0 && c.now().Sub(e.built) <= c.ttl
}

// GetOrBuild returns the cached view of productID or builds and stores it.
func (c *ViewCache) GetOrBuild(ctx context.Context, productID uint, build func(context.Context) (*View, error)) (*View, error) {
	// Fast path
	c.mu.RLock()
	entry, ok := c.entries[productID]
	c.mu.RUnlock()
	if ok && c.fresh(entry) {
		return entry.view, nil
	}

	result, err, _ := c.sf.Do(strconv.FormatUint(uint64(productID), 10), func() (any, error) {
		c.mu.RLock()
		entry, ok := c.entries[productID]
		gen := c.gens[productID]
		c.mu.RUnlock()
		if ok && c.fresh(entry) {
			return entry.view, nil
		}

		view, err := build(ctx)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			if c.gens[productID] == gen {
				c.entries[productID] = cachedView{view: view, built: c.now()}
			}
			c.mu.Unlock()
		}
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*View), nil
}

// Invalidate drops the cached view of productID.
func (c *ViewCache) Invalidate(productID uint) {
	c.mu.Lock()
	delete(c.entries, productID)
	c.gens[productID]++
	c.mu.Unlock()
}

// Len returns the number of cached views.
func (c *ViewCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
