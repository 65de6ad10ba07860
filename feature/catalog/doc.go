// Package catalog defines the persisted shape of the game catalog and the
// small set of value rules every writer shares.
//
// # Entities
//
// A Product owns exactly one Title. The Title is the cross-provider identity of
// a game and owns the provider SourceRecords ingested for it and the
// provider-scoped VideoGame projections built from them. Each VideoGame owns at
// most one Image row and one Video row per provider; those rows hold a
// collection of URLs with a positionally aligned MediaDetail list.
//
// VideoGameSource is the provider registration: one row per provider string,
// carrying display metadata and an items count recomputed from source rows.
//
// # Typed documents
//
// JSON columns are stored through gorm.io/datatypes. GameAttributes and
// ProductMetadata replace untyped maps with explicit structs:
//
//   - GameAttributes.Merge overwrites only the fields a patch supplies.
//   - ProductMetadata.AddProvider and AddProvider keep provider lists add-only,
//     deduplicated and free of falsy entries.
//
// # Titles
//
// NormalizeTitle maps a display name to the key used to match titles across
// providers. EnsureTitle resolves or creates the Product and Title for a name,
// deriving unique slugs with github.com/gosimple/slug.
package catalog
