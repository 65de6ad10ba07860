package reconcile

// Item is an adapter-defined entity snapshot from either index.
type Item any

// ReconcileResult represents the reconciliation output for a single key.
type ReconcileResult struct {
	// Key is the entity identifier shared by both indices.
	Key string `json:"key"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// StoredPresent indicates whether the aggregate row exists.
	StoredPresent bool `json:"stored_present"`

	// DerivedPresent indicates whether the source data implies the entity.
	DerivedPresent bool `json:"derived_present"`

	// Mismatch describes each divergence, e.g. "items_count: stored=3 derived=4".
	Mismatch []string `json:"mismatch"`
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides entity-specific loading and comparison.
	Adapter Adapter
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionRepair rewrites the stored aggregate from source data.
	ActionRepair ActionType = "repair"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Derived is the source-side snapshot, nil when the entity has no sources.
	Derived Item `json:"-"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	Results []ReconcileResult `json:"results"`
	Actions []Action          `json:"actions"`
	Summary PlanSummary       `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the number of distinct keys across both indices.
	TotalItems int `json:"total_items"`

	// MissingStored counts keys implied by sources but without an aggregate row.
	MissingStored int `json:"missing_stored"`

	// MissingDerived counts aggregate rows without any live source.
	MissingDerived int `json:"missing_derived"`

	// Mismatches counts keys with at least one divergence.
	Mismatches int `json:"mismatches"`

	// RepairActions counts planned repairs.
	RepairActions int `json:"repair_actions"`
}

// ReconcileOptions controls whether repairs are planned and executed.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoSync plans a repair for every key with mismatches.
	DoSync bool

	// Confirmed indicates the operator accepted the mutations.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
