// Package media aggregates the images and videos collected from every provider
// of a product and ranks them into deterministic views.
//
// # Model
//
// Each provider-scoped game owns at most one Image row and one Video row per
// provider. A row stores a list of URLs and a positionally aligned list of
// details (kind, dimensions, ordinal, primary flag, quality). Store expands the
// rows of every game of a product into Items and builds a Collection, which
// deduplicates by (item id, url).
//
// # Ranking
//
// Image kinds are ranked by KindPriority:
//
//	cover, box_art, boxart                                    400
//	background, backdrop, banner, fanart, keyart, key_art, poster 350
//	artwork                                                   300
//	screenshot                                                200
//	icon, thumb, thumbnail                                    150
//	anything else                                             100
//
// PrimaryImage takes the maximum by (is_primary, kind priority, quality,
// ordinal, id). PrimaryCoverImage does the same after removing screenshots and
// returns nothing when only screenshots exist. Gallery sorts by is_primary,
// kind priority and quality descending and then by ordinal ascending, which is
// the reverse ordinal direction of PrimaryImage. Trailers sort by
// (ordinal, id) ascending and PrimaryVideo is the first trailer.
//
// # Propagation
//
// Propagator is the collaborator scheduled after a source merge. It extracts
// media from the game's source payloads, classifies kinds from the provider's
// role hint or the URL, upserts the rows and invalidates the product's cached
// view. Its job retries after 30s, 120s and 300s.
//
// # HTTP
//
//	GET /products/:id/media
package media
