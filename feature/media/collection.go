package media

import (
	"sort"
)

type dedupKey struct {
	id  uint
	url string
}

// Collection is the deduplicated media of one product. All views are pure
// functions of the loaded items.
type Collection struct {
	images []Item
	videos []Item
}

// NewCollection deduplicates images and videos by (id, url); the first
// occurrence wins.
func NewCollection(images, videos []Item) *Collection {
	return &Collection{images: dedup(images), videos: dedup(videos)}
}

func dedup(items []Item) []Item {
	seen := make(map[dedupKey]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		key := dedupKey{id: it.ID, url: it.URL}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Images returns the deduplicated images in load order.
func (c *Collection) Images() []Item { return c.images }

// Videos returns the deduplicated videos in load order.
func (c *Collection) Videos() []Item { return c.videos }

// ImageCount returns the number of images.
func (c *Collection) ImageCount() int { return len(c.images) }

// VideoCount returns the number of videos.
func (c *Collection) VideoCount() int { return len(c.videos) }

// TotalCount returns the number of images and videos.
func (c *Collection) TotalCount() int { return len(c.images) + len(c.videos) }

// PrimaryImage returns the best image by (is_primary, kind priority, quality,
// ordinal, id), every component preferring the larger value.
func (c *Collection) PrimaryImage() *Item {
	return maxImage(c.images)
}

// PrimaryCoverImage ranks like PrimaryImage but never returns a screenshot,
// even when screenshots are all there is.
func (c *Collection) PrimaryCoverImage() *Item {
	candidates := make([]Item, 0, len(c.images))
	for _, it := range c.images {
		if !IsScreenshot(it.Kind) {
			candidates = append(candidates, it)
		}
	}
	return maxImage(candidates)
}

// PrimaryVideo returns the video with the lowest (ordinal, id).
func (c *Collection) PrimaryVideo() *Item {
	trailers := c.Trailers()
	if len(trailers) == 0 {
		return nil
	}
	return &trailers[0]
}

// Gallery returns every image ordered by is_primary, kind priority and quality
// descending, then ordinal ascending. The ordinal direction is the reverse of
// PrimaryImage's tie-break.
func (c *Collection) Gallery() []Item {
	out := append([]Item(nil), c.images...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPrimary != b.IsPrimary {
			return a.IsPrimary
		}
		if pa, pb := KindPriority(a.Kind), KindPriority(b.Kind); pa != pb {
			return pa > pb
		}
		if qa, qb := a.quality(), b.quality(); qa != qb {
			return qa > qb
		}
		return a.ordinal() < b.ordinal()
	})
	return out
}

// Trailers returns every video ordered by (ordinal, id) ascending.
func (c *Collection) Trailers() []Item {
	out := append([]Item(nil), c.videos...)
	sort.SliceStable(out, func(i, j int) bool {
		if oa, ob := out[i].ordinal(), out[j].ordinal(); oa != ob {
			return oa < ob
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// imageLess reports whether a ranks strictly below b.
func imageLess(a, b Item) bool {
	if a.IsPrimary != b.IsPrimary {
		return !a.IsPrimary
	}
	if pa, pb := KindPriority(a.Kind), KindPriority(b.Kind); pa != pb {
		return pa < pb
	}
	if qa, qb := a.quality(), b.quality(); qa != qb {
		return qa < qb
	}
	if oa, ob := a.ordinal(), b.ordinal(); oa != ob {
		return oa < ob
	}
	return a.ID < b.ID
}

func maxImage(items []Item) *Item {
	if len(items) == 0 {
		return nil
	}
	best := items[0]
	for _, it := range items[1:] {
		if imageLess(best, it) {
			best = it
		}
	}
	return &best
}
