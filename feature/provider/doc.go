// Package provider resolves provider strings to display metadata and
// discovers which providers are mapped to a title.
//
// # Registry
//
// The Registry holds a built-in table of known providers (catalogues such as
// IGDB and TheGamesDB, storefronts such as Steam and GOG, price aggregators).
// An optional JSON document in object storage can override or extend it:
//
//	{"providers": [{"provider": "humble", "display_name": "Humble Store", "category": "storefront"}]}
//
// Lookups never fail. A provider missing from the table resolves to an entry
// with an upper-cased display name, category "unknown" and no base URL.
//
// # Discovery
//
// Discovery loads the live source records of a title and answers capability
// questions: which providers carry prices, which carry media, and which single
// provider is the preferred media source (igdb, then tgdb, then steam).
//
// # HTTP
//
//	GET /providers
//	GET /providers/:provider
//	GET /titles/:id/providers
package provider
