package propagation

import (
	"reflect"
	"time"

	"game-catalog/feature/catalog"

	"gorm.io/datatypes"
)

// MergeSource folds src into game and reports whether game changed. Values the
// source does not supply never erase existing ones.
func MergeSource(game *catalog.VideoGame, src *catalog.SourceRecord) bool {
	if !ShouldOverwrite(src.Provider, game.Provider) {
		return false
	}

	changed := false
	if src.Name != nil && *src.Name != game.Name {
		game.Name = *src.Name
		changed = true
	}
	if src.Rating != nil && !equalPtr(game.Rating, src.Rating) {
		game.Rating = src.Rating
		changed = true
	}
	if src.ReleaseDate != nil && !equalTime(game.ReleaseDate, src.ReleaseDate) {
		game.ReleaseDate = src.ReleaseDate
		changed = true
	}

	current := game.Attributes.Data()
	merged := current.Merge(catalog.AttributesOf(src))
	if !reflect.DeepEqual(current, merged) {
		game.Attributes = datatypes.NewJSONType(merged)
		changed = true
	}
	return changed
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
