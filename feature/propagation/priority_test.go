package propagation_test

import (
	"testing"
	"time"

	"game-catalog/feature/catalog"
	"game-catalog/feature/propagation"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestPriority(t *testing.T) {
	tests := map[string]int{
		"igdb":        100,
		"IGDB":        100,
		"steam":       80,
		"playstation": 70,
		"xbox":        70,
		"gog":         60,
		"epic":        60,
		"steam_store": propagation.DefaultPriority,
		"tgdb":        50,
		"":            50,
	}
	for providerName, want := range tests {
		assert.Equal(t, want, propagation.Priority(providerName), providerName)
	}
}

func TestShouldOverwrite(t *testing.T) {
	assert.True(t, propagation.ShouldOverwrite("igdb", "igdb"), "same provider always merges")
	assert.True(t, propagation.ShouldOverwrite("tgdb", "rawg"), "equal default priority merges")
	assert.True(t, propagation.ShouldOverwrite("igdb", "steam"))
	assert.False(t, propagation.ShouldOverwrite("gog", "steam"))
}

func TestMergeSource(t *testing.T) {
	release := time.Date(2017, 2, 24, 0, 0, 0, 0, time.UTC)

	t.Run("source values win when present", func(t *testing.T) {
		game := &catalog.VideoGame{Provider: "igdb", Name: "Old"}
		src := &catalog.SourceRecord{
			Provider:    "igdb",
			Name:        ptr("New"),
			Rating:      ptr(88.5),
			ReleaseDate: &release,
			Platform:    ptr("PC"),
		}

		assert.True(t, propagation.MergeSource(game, src))
		assert.Equal(t, "New", game.Name)
		assert.Equal(t, 88.5, *game.Rating)
		assert.True(t, release.Equal(*game.ReleaseDate))
		assert.Equal(t, "PC", *game.Attributes.Data().Platform)

		assert.False(t, propagation.MergeSource(game, src), "second merge is a no-op")
	})

	t.Run("absent values never erase", func(t *testing.T) {
		game := &catalog.VideoGame{
			Provider:   "steam",
			Name:       "Kept",
			Rating:     ptr(70.0),
			Attributes: datatypes.NewJSONType(catalog.GameAttributes{Developer: ptr("Valve")}),
		}
		src := &catalog.SourceRecord{Provider: "steam", Publisher: ptr("Valve Corp")}

		assert.True(t, propagation.MergeSource(game, src))
		assert.Equal(t, "Kept", game.Name)
		assert.Equal(t, 70.0, *game.Rating)
		attrs := game.Attributes.Data()
		assert.Equal(t, "Valve", *attrs.Developer)
		assert.Equal(t, "Valve Corp", *attrs.Publisher)
	})

	t.Run("lower priority source is ignored", func(t *testing.T) {
		game := &catalog.VideoGame{Provider: "steam", Name: "Kept"}
		src := &catalog.SourceRecord{Provider: "gog", Name: ptr("Other")}

		assert.False(t, propagation.MergeSource(game, src))
		assert.Equal(t, "Kept", game.Name)
	})
}
