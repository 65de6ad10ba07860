// Package propagation folds provider source records into provider-scoped games
// and keeps the shared aggregate fields of the catalog consistent.
//
// # Lifecycle
//
// Source records change through the Recorder. Each mutation runs in a
// transaction and fires an Event through a Pipeline whose bindings are fixed
// at construction by Engine.Bindings:
//
//   - created: enforce invariants, then dispatch propagation
//   - updated: same as created, but only when a watched field changed
//     (name, description, rating, release_date, developer, publisher, genre,
//     platform)
//   - restored: same as created
//
// Soft deletion is not bound; dependents are removed by cascade.
//
// Invariant enforcement happens inside the triggering transaction. The
// propagation job is enqueued only after that transaction commits, so a
// rolled back write never schedules work.
//
// # Invariants
//
// Invariants owns every write to shared aggregates: provider registrations
// (first insert wins), the items count of a registration (always recomputed as
// the number of distinct external ids, never incremented), and the provider
// lists of titles and products (add-only, deduplicated). Concurrent jobs for
// different sources of one title may race on these lists; every operation is
// idempotent so the result converges.
//
// # Propagation job
//
// SourceJob is unique per source id for 60 seconds, runs at most 3 times and
// is bounded by a 120 second timeout. It loads a projection of the record
// (never the raw payload), resolves or creates the game keyed by
// (title, provider, external id) and merges the record into it inside one
// transaction. A missing record is logged and treated as success. After commit
// the media collaborator is asked to refresh the game's media.
//
// The merge is gated by a provider priority table (igdb 100, steam 80,
// playstation and xbox 70, gog and epic 60, others 50). Because a game is keyed
// by the same provider as its sources the gate always passes; the table is kept
// as the documented policy.
//
// # Audit
//
// ProviderCountAdapter and TitleProvidersAdapter plug into core/reconcile to
// find and repair drifted aggregates using the same invariant code.
package propagation
