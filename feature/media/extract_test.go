package media_test

import (
	"testing"

	"game-catalog/feature/catalog"
	"game-catalog/feature/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyImage(t *testing.T) {
	tests := []struct {
		name string
		url  string
		role string
		want string
	}{
		{"Role cover", "https://cdn/a.jpg", "boxart", media.KindCover},
		{"Role hero", "https://cdn/a.jpg", "hero", media.KindKeyArt},
		{"Role wins over url", "https://cdn/screenshot.jpg", "cover", media.KindCover},
		{"Url screenshot", "https://cdn/screenshots/1.jpg", "", media.KindScreenshot},
		{"Url thumb", "https://cdn/t_thumb/1.jpg", "", media.KindThumbnail},
		{"Url logo", "https://cdn/logo.png", "", media.KindLogo},
		{"Url background", "https://cdn/page_bg/background.jpg", "", media.KindBackground},
		{"Unknown", "https://cdn/1.jpg", "", media.KindImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, media.ClassifyImage(tt.url, tt.role))
		})
	}
}

func TestClassifyVideo(t *testing.T) {
	assert.Equal(t, media.KindTrailer, media.ClassifyVideo("https://v/1", "Launch Trailer"))
	assert.Equal(t, media.KindAdvertisement, media.ClassifyVideo("https://v/1", "ad"))
	assert.Equal(t, media.KindPreview, media.ClassifyVideo("https://v/1", "teaser"))
	assert.Equal(t, media.KindGameplay, media.ClassifyVideo("https://v/gameplay.mp4", ""))
	assert.Equal(t, media.KindVideo, media.ClassifyVideo("https://v/1.mp4", ""))
}

func TestExtract(t *testing.T) {
	payload, err := catalog.DecodePayload([]byte(`{
		"cover": "//images.example.com/cover.jpg",
		"artworks": ["https://images.example.com/art.png"],
		"screenshots": [
			{"url": "https://images.example.com/shot1.jpg", "width": 1920, "height": 1080, "quality": 1.7},
			{"url": "https://images.example.com/shot1.jpg"},
			{"url": ""}
		],
		"videos": [{"video_id": "abc123", "type": "trailer", "name": "Launch"}],
		"media": [
			{"url": "https://cdn.example.com/logo.png", "role": "logo", "is_primary": 1},
			{"url": "https://cdn.example.com/clip.mp4", "media_type": "video", "ordinal": 5}
		]
	}`))
	require.NoError(t, err)

	found := media.Extract(payload)

	require.Len(t, found.Images, 4)
	cover := found.Images[0]
	assert.Equal(t, "https://images.example.com/cover.jpg", cover.URL)
	assert.Equal(t, media.KindCover, cover.Kind)
	require.NotNil(t, cover.Ordinal)
	assert.Equal(t, 0, *cover.Ordinal)

	assert.Equal(t, media.KindArtwork, found.Images[1].Kind)

	shot := found.Images[2]
	assert.Equal(t, media.KindScreenshot, shot.Kind)
	require.NotNil(t, shot.Width)
	assert.Equal(t, 1920, *shot.Width)
	require.NotNil(t, shot.Quality)
	assert.Equal(t, 1.0, *shot.Quality, "quality is clamped")

	logo := found.Images[3]
	assert.Equal(t, media.KindLogo, logo.Kind)
	assert.True(t, logo.IsPrimary)

	require.Len(t, found.Videos, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", found.Videos[0].URL)
	assert.Equal(t, media.KindTrailer, found.Videos[0].Kind)
	assert.Equal(t, "Launch", found.Videos[0].Title)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", found.Videos[1].URL)
	assert.Equal(t, 5, *found.Videos[1].Ordinal)
}

func TestExtract_EmptyPayload(t *testing.T) {
	found := media.Extract(map[string]any{"name": "Nothing"})
	assert.Empty(t, found.Images)
	assert.Empty(t, found.Videos)
}

func TestImagesFromRow(t *testing.T) {
	row := catalog.Image{
		ID:          4,
		VideoGameID: 9,
		Provider:    "igdb",
		URLs:        []string{"https://a/1.jpg", "https://a/2.jpg"},
		Details: []catalog.MediaDetail{
			{ID: 40, Kind: "cover"},
			{Kind: "screenshot", URL: "https://ignored"},
		},
	}

	items := media.ImagesFromRow(row)
	require.Len(t, items, 2)
	assert.Equal(t, uint(40), items[0].ID)
	assert.Equal(t, "https://a/1.jpg", items[0].URL)
	assert.Equal(t, uint(4), items[1].ID, "missing detail id falls back to the row id")
	assert.Equal(t, "https://a/2.jpg", items[1].URL, "urls take precedence over detail urls")
	assert.Equal(t, "igdb", items[1].Provider)
	assert.Equal(t, uint(9), items[1].VideoGameID)
}
