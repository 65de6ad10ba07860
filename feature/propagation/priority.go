package propagation

import "game-catalog/feature/catalog"

// DefaultPriority applies to providers missing from the table.
const DefaultPriority = 50

var providerPriority = map[string]int{
	"igdb":        100,
	"steam":       80,
	"playstation": 70,
	"xbox":        70,
	"gog":         60,
	"epic":        60,
}

// Priority returns the merge precedence of provider, case-insensitively.
func Priority(provider string) int {
	if p, ok := providerPriority[catalog.NormalizeProvider(provider)]; ok {
		return p
	}
	return DefaultPriority
}

// ShouldOverwrite reports whether data from sourceProvider may overwrite a
// game owned by gameProvider. Games are keyed by provider, so in practice both
// sides match and this holds.
func ShouldOverwrite(sourceProvider, gameProvider string) bool {
	return Priority(sourceProvider) >= Priority(gameProvider)
}
