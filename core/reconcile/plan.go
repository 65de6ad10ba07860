package reconcile

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, db *gorm.DB, opts ReconcileOptions) (*ReconcilePlan, error) {
	idx, err := BuildIndices(ctx, spec, db)
	if err != nil {
		return nil, err
	}

	results := reconcileIndices(idx, spec.Adapter)
	summary, actions := buildPlanFromResults(results, idx, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, db *gorm.DB, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun || len(plan.Actions) == 0 {
		return 0, nil
	}

	if batcher, ok := spec.Adapter.(BatchMutator); ok {
		if err := batcher.RepairBatch(ctx, db, plan.Actions); err != nil {
			return 0, fmt.Errorf("failed to batch repair %s: %w", spec.Adapter.Name(), err)
		}
		return len(plan.Actions), nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	for _, action := range plan.Actions {
		if err := mutator.Repair(ctx, db, action.Key, action.Derived); err != nil {
			return executed, fmt.Errorf("failed to repair key %s: %w", action.Key, err)
		}
		executed++
	}
	return executed, nil
}

// ReconcileAndApply plans and, when confirmed, applies the repairs.
func ReconcileAndApply(ctx context.Context, spec *Spec, db *gorm.DB, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, db, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, db, plan, opts)
	return plan, executed, err
}

func buildPlanFromResults(results []ReconcileResult, idx *Indices, opts ReconcileOptions) (PlanSummary, []Action) {
	var (
		summary PlanSummary
		actions []Action
	)

	summary.TotalItems = len(results)
	for _, result := range results {
		if result.DerivedPresent && !result.StoredPresent {
			summary.MissingStored++
		}
		if result.StoredPresent && !result.DerivedPresent {
			summary.MissingDerived++
		}
		if len(result.Mismatch) == 0 {
			continue
		}
		summary.Mismatches++

		if opts.DoSync {
			actions = append(actions, Action{
				Type:    ActionRepair,
				Key:     result.Key,
				Reason:  strings.Join(result.Mismatch, "; "),
				Derived: idx.Derived[result.Key],
			})
			summary.RepairActions++
		}
	}

	return summary, actions
}
