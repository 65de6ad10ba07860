package media_test

import (
	"testing"

	"game-catalog/feature/catalog/catalogtest"
	"game-catalog/feature/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func image(id uint, kind string, ordinal int) media.Item {
	return media.Item{
		ID:      id,
		URL:     "https://cdn.example.com/" + kind + "/" + string(rune('a'+id)) + ".jpg",
		Kind:    kind,
		Ordinal: catalogtest.Ptr(ordinal),
	}
}

func ids(items []media.Item) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPrimaryImage_OrdinalTieBreak(t *testing.T) {
	c := media.NewCollection([]media.Item{image(1, "cover", 1), image(2, "cover", 2)}, nil)

	primary := c.PrimaryImage()
	require.NotNil(t, primary)
	assert.Equal(t, uint(2), primary.ID, "larger ordinal wins the primary tie-break")

	gallery := c.Gallery()
	assert.Equal(t, []uint{1, 2}, ids(gallery), "gallery orders equal images by ascending ordinal")
}

func TestPrimaryImage_Ranking(t *testing.T) {
	screenshot := image(1, "screenshot", 0)
	cover := image(2, "cover", 0)
	flagged := image(3, "screenshot", 0)
	flagged.IsPrimary = true

	c := media.NewCollection([]media.Item{screenshot, cover}, nil)
	assert.Equal(t, uint(2), c.PrimaryImage().ID)

	sharp := image(6, "screenshot", 0)
	sharp.Quality = catalogtest.Ptr(1.0)
	blurry := image(7, "cover", 0)
	blurry.Quality = catalogtest.Ptr(0.0)
	c = media.NewCollection([]media.Item{sharp, blurry}, nil)
	assert.Equal(t, uint(7), c.PrimaryImage().ID, "kind outranks quality")
	assert.Equal(t, uint(7), c.PrimaryCoverImage().ID)

	c = media.NewCollection([]media.Item{screenshot, cover, flagged}, nil)
	assert.Equal(t, uint(3), c.PrimaryImage().ID, "is_primary outranks kind")

	low := image(4, "artwork", 0)
	low.Quality = catalogtest.Ptr(0.2)
	high := image(5, "artwork", 0)
	high.Quality = catalogtest.Ptr(0.9)
	c = media.NewCollection([]media.Item{high, low}, nil)
	assert.Equal(t, uint(5), c.PrimaryImage().ID)
	assert.Equal(t, []uint{5, 4}, ids(c.Gallery()))
}

func TestPrimaryCoverImage_ExcludesScreenshots(t *testing.T) {
	c := media.NewCollection([]media.Item{image(1, "screenshot", 0), image(2, "screenshot", 1)}, nil)

	assert.NotNil(t, c.PrimaryImage())
	assert.Nil(t, c.PrimaryCoverImage(), "screenshots never become the cover")

	c = media.NewCollection([]media.Item{image(1, "screenshot", 0), image(2, "icon", 0)}, nil)
	require.NotNil(t, c.PrimaryCoverImage())
	assert.Equal(t, uint(2), c.PrimaryCoverImage().ID)
}

func TestTrailers_OrderedByOrdinalThenID(t *testing.T) {
	videos := []media.Item{
		{ID: 10, URL: "https://video.example.com/10", Ordinal: catalogtest.Ptr(3)},
		{ID: 11, URL: "https://video.example.com/11", Ordinal: catalogtest.Ptr(1)},
		{ID: 12, URL: "https://video.example.com/12", Ordinal: catalogtest.Ptr(2)},
	}
	c := media.NewCollection(nil, videos)

	assert.Equal(t, []uint{11, 12, 10}, ids(c.Trailers()))
	require.NotNil(t, c.PrimaryVideo())
	assert.Equal(t, uint(11), c.PrimaryVideo().ID)

	tied := []media.Item{
		{ID: 21, URL: "https://video.example.com/21"},
		{ID: 20, URL: "https://video.example.com/20"},
	}
	assert.Equal(t, []uint{20, 21}, ids(media.NewCollection(nil, tied).Trailers()))
}

func TestCollection_DedupAcrossProviders(t *testing.T) {
	url := "https://cdn.example.com/shared.jpg"
	images := []media.Item{
		{ID: 7, URL: url, Provider: "igdb", Kind: "cover"},
		{ID: 7, URL: url, Provider: "steam", Kind: "cover"},
		{ID: 8, URL: url, Provider: "steam", Kind: "cover"},
	}
	c := media.NewCollection(images, nil)

	assert.Equal(t, 2, c.ImageCount())
	assert.Equal(t, "igdb", c.Images()[0].Provider, "first occurrence wins")
	assert.Equal(t, 0, c.VideoCount())
	assert.Equal(t, 2, c.TotalCount())
}

func TestCollection_Empty(t *testing.T) {
	c := media.NewCollection(nil, nil)

	assert.Nil(t, c.PrimaryImage())
	assert.Nil(t, c.PrimaryCoverImage())
	assert.Nil(t, c.PrimaryVideo())
	assert.Empty(t, c.Gallery())
	assert.Empty(t, c.Trailers())
	assert.Equal(t, 0, c.TotalCount())
}

func TestKindPriority(t *testing.T) {
	tests := []struct {
		kind string
		want int
	}{
		{"cover", 400},
		{"Box_Art", 400},
		{"keyart", 350},
		{"fanart", 350},
		{"artwork", 300},
		{"screenshot", 200},
		{"thumb", 150},
		{"logo", 100},
		{"", 100},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, media.KindPriority(tt.kind))
		})
	}
}
