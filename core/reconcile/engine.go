package reconcile

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Indices holds both sides of a reconciliation.
type Indices struct {
	Stored  map[string]Item
	Derived map[string]Item
}

// BuildIndices loads the stored and derived indices concurrently.
func BuildIndices(ctx context.Context, spec *Spec, db *gorm.DB) (*Indices, error) {
	var (
		stored, derived       map[string]Item
		storedErr, derivedErr error
		wg                    sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stored, storedErr = spec.Adapter.LoadStored(ctx, db)
	}()
	go func() {
		defer wg.Done()
		derived, derivedErr = spec.Adapter.LoadDerived(ctx, db)
	}()
	wg.Wait()

	if storedErr != nil {
		return nil, storedErr
	}
	if derivedErr != nil {
		return nil, derivedErr
	}

	return &Indices{Stored: stored, Derived: derived}, nil
}

// ReconcileAll compares every key present in either index.
func ReconcileAll(ctx context.Context, spec *Spec, db *gorm.DB) ([]ReconcileResult, error) {
	idx, err := BuildIndices(ctx, spec, db)
	if err != nil {
		return nil, err
	}
	return reconcileIndices(idx, spec.Adapter), nil
}

func reconcileIndices(idx *Indices, adapter Adapter) []ReconcileResult {
	union := make(map[string]struct{}, len(idx.Stored)+len(idx.Derived))
	for key := range idx.Stored {
		union[key] = struct{}{}
	}
	for key := range idx.Derived {
		union[key] = struct{}{}
	}

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, idx, adapter))
	}

	// Deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

func buildResult(key string, idx *Indices, adapter Adapter) ReconcileResult {
	stored, storedPresent := idx.Stored[key]
	derived, derivedPresent := idx.Derived[key]

	mismatch := adapter.Compare(stored, derived)
	if mismatch == nil {
		mismatch = []string{}
	}

	return ReconcileResult{
		Key:            key,
		Name:           adapter.ResolveName(stored, derived),
		StoredPresent:  storedPresent,
		DerivedPresent: derivedPresent,
		Mismatch:       mismatch,
	}
}
