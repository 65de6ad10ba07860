package reconcile

import (
	"context"

	"gorm.io/gorm"
)

// Adapter defines entity-specific reconciliation logic. The stored index holds
// aggregate rows as persisted; the derived index is recomputed from source rows.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "providers").
	Name() string

	// LoadStored loads the persisted aggregates keyed by entity key.
	LoadStored(ctx context.Context, db *gorm.DB) (map[string]Item, error)

	// LoadDerived recomputes the expected aggregates from source rows.
	LoadDerived(ctx context.Context, db *gorm.DB) (map[string]Item, error)

	// ResolveName returns a display name. Either item may be nil.
	ResolveName(stored, derived Item) string

	// Compare returns mismatch descriptions. Either item may be nil; adapters
	// decide which absences are divergences.
	Compare(stored, derived Item) []string
}

// Mutator is implemented by adapters that can repair a key.
type Mutator interface {
	Repair(ctx context.Context, db *gorm.DB, key string, derived Item) error
}

// BatchMutator repairs many keys in one call.
type BatchMutator interface {
	RepairBatch(ctx context.Context, db *gorm.DB, actions []Action) error
}
