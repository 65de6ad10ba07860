// Package reconcile audits persisted aggregates against the source rows they
// are derived from, and plans repairs for any divergence.
//
// Aggregates such as provider item counts or a title's provider list are
// maintained incrementally by the propagation pipeline. A missed event or a
// manual database edit can leave them stale. The reconcile engine recomputes
// the expected value from source rows and compares it with what is stored.
//
// # Architecture
//
// 1. Engine: loads both indices concurrently, builds the union of keys and asks
// the adapter to compare each pair.
//
// 2. Adapter: entity-specific loading, naming and comparison. Adapters decide
// which absences matter; for add-only fields only missing members are reported.
//
// 3. Plan: summarises the results and, with DoSync, plans one repair action per
// mismatching key. ApplyPlan executes the actions only when the plan is
// confirmed and not a dry run, preferring BatchMutator over Mutator.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: propagation.NewProviderCountAdapter(inv)}
//	plan, err := reconcile.ReconcileWithPlan(ctx, spec, db, reconcile.ReconcileOptions{DoSync: true})
//	executed, err := reconcile.ApplyPlan(ctx, spec, db, plan, reconcile.ReconcileOptions{DoSync: true, Confirmed: true})
package reconcile
