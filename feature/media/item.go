package media

import (
	"time"

	"game-catalog/feature/catalog"
)

// Item is one image or video expanded from a stored media row.
type Item struct {
	ID          uint           `json:"id"`
	VideoGameID uint           `json:"video_game_id"`
	Provider    string         `json:"provider"`
	URL         string         `json:"url"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Title       string         `json:"title,omitempty"`
	Caption     string         `json:"caption,omitempty"`
	License     string         `json:"license,omitempty"`
	LicenseURL  string         `json:"license_url,omitempty"`
	Attribution string         `json:"attribution,omitempty"`
	Width       *int           `json:"width,omitempty"`
	Height      *int           `json:"height,omitempty"`
	Quality     *float64       `json:"quality,omitempty"`
	Ordinal     *int           `json:"ordinal,omitempty"`
	Kind        string         `json:"kind"`
	IsPrimary   bool           `json:"is_primary"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	FetchedAt   *time.Time     `json:"fetched_at,omitempty"`
}

func (i Item) quality() float64 {
	if i.Quality == nil {
		return 0
	}
	return *i.Quality
}

func (i Item) ordinal() int {
	if i.Ordinal == nil {
		return 0
	}
	return *i.Ordinal
}

// ImagesFromRow expands an Image row into items.
func ImagesFromRow(row catalog.Image) []Item {
	return expand(row.ID, row.VideoGameID, row.Provider, row.URLs, row.Details, row.UpdatedAt)
}

// VideosFromRow expands a Video row into items.
func VideosFromRow(row catalog.Video) []Item {
	return expand(row.ID, row.VideoGameID, row.Provider, row.URLs, row.Details, row.UpdatedAt)
}

// expand pairs each URL with the detail at the same position. An item without
// its own id takes the row id.
func expand(rowID, gameID uint, provider string, urls []string, details []catalog.MediaDetail, fetched time.Time) []Item {
	n := max(len(urls), len(details))
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		var d catalog.MediaDetail
		if i < len(details) {
			d = details[i]
		}
		url := d.URL
		if i < len(urls) && urls[i] != "" {
			url = urls[i]
		}
		if url == "" {
			continue
		}

		id := d.ID
		if id == 0 {
			id = rowID
		}
		fetchedAt := d.FetchedAt
		if fetchedAt == nil && !fetched.IsZero() {
			t := fetched
			fetchedAt = &t
		}

		items = append(items, Item{
			ID:          id,
			VideoGameID: gameID,
			Provider:    provider,
			URL:         url,
			Thumbnail:   d.Thumbnail,
			Title:       d.Title,
			Caption:     d.Caption,
			License:     d.License,
			LicenseURL:  d.LicenseURL,
			Attribution: d.Attribution,
			Width:       d.Width,
			Height:      d.Height,
			Quality:     d.Quality,
			Ordinal:     d.Ordinal,
			Kind:        d.Kind,
			IsPrimary:   d.IsPrimary,
			Metadata:    d.Metadata,
			FetchedAt:   fetchedAt,
		})
	}
	return items
}
