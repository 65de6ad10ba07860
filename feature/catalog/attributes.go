package catalog

import (
	"encoding/json"
	"slices"
	"strings"

	"game-catalog/core/utils"
)

// GameAttributes is the merged attribute set of a VideoGame. A nil field means
// no provider has supplied a value yet.
type GameAttributes struct {
	Description *string `json:"description,omitempty"`
	Developer   *string `json:"developer,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	RatingCount *int    `json:"rating_count,omitempty"`
}

// Merge returns a copy of a where every field supplied by patch overwrites the
// existing value. Absent patch fields keep the current value.
func (a GameAttributes) Merge(patch GameAttributes) GameAttributes {
	out := a
	if patch.Description != nil {
		out.Description = patch.Description
	}
	if patch.Developer != nil {
		out.Developer = patch.Developer
	}
	if patch.Publisher != nil {
		out.Publisher = patch.Publisher
	}
	if patch.Genre != nil {
		out.Genre = patch.Genre
	}
	if patch.Platform != nil {
		out.Platform = patch.Platform
	}
	if patch.RatingCount != nil {
		out.RatingCount = patch.RatingCount
	}
	return out
}

// AttributesOf extracts the attribute patch carried by a source record.
func AttributesOf(src *SourceRecord) GameAttributes {
	return GameAttributes{
		Description: src.Description,
		Developer:   src.Developer,
		Publisher:   src.Publisher,
		Genre:       src.Genre,
		Platform:    src.Platform,
		RatingCount: src.RatingCount,
	}
}

// ProductMetadata is the free-form metadata document of a Product. The
// providers list is typed; every other key round-trips through Extra.
type ProductMetadata struct {
	Providers []string
	Extra     map[string]any
}

// AddProvider adds provider to the list. Falsy entries are dropped and
// duplicates collapsed. It reports whether the stored list changed.
func (m *ProductMetadata) AddProvider(provider string) bool {
	next, changed := AddProvider(m.Providers, provider)
	m.Providers = next
	return changed
}

// HasProvider reports whether provider is listed.
func (m ProductMetadata) HasProvider(provider string) bool {
	return slices.Contains(m.Providers, provider)
}

// MarshalJSON flattens Extra and providers into one object.
func (m ProductMetadata) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(m.Extra)+1)
	for k, v := range m.Extra {
		doc[k] = v
	}
	providers := m.Providers
	if providers == nil {
		providers = []string{}
	}
	doc["providers"] = providers
	return json.Marshal(doc)
}

// UnmarshalJSON accepts any JSON object. Non-string providers are kept as
// their string form; falsy entries are dropped.
func (m *ProductMetadata) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	m.Providers = nil
	m.Extra = nil
	for k, v := range doc {
		if k == "providers" {
			if list, ok := v.([]any); ok {
				for _, entry := range list {
					if utils.IsFalsy(entry) {
						continue
					}
					m.Providers, _ = AddProvider(m.Providers, utils.ToString(entry))
				}
			}
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[k] = v
	}
	return nil
}

// AddProvider returns list with provider appended when missing. Falsy entries
// already in list are removed. The bool reports whether the result differs.
func AddProvider(list []string, provider string) ([]string, bool) {
	changed := false
	out := make([]string, 0, len(list)+1)
	for _, p := range list {
		if utils.IsFalsy(p) || slices.Contains(out, p) {
			changed = true
			continue
		}
		out = append(out, p)
	}

	provider = NormalizeProvider(provider)
	if !utils.IsFalsy(provider) && !slices.Contains(out, provider) {
		out = append(out, provider)
		changed = true
	}
	return out, changed
}

// NormalizeProvider lowercases and trims a provider string.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}
