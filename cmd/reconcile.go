package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"game-catalog/core/reconcile"
	"game-catalog/feature/propagation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncReconcile   bool
	dryRunReconcile bool
	yesConfirm      bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Audit aggregate state against source records",
	Long: `Recompute aggregates from live source records and compare them with what is stored.
Supports an optional sync that repairs divergences through the invariant enforcer.`,
}

var providersReconcileCmd = &cobra.Command{
	Use:   "providers",
	Short: "Audit provider registrations and items counts",
	Long: `Every provider with a live source record must be registered, and its items_count
must equal the number of distinct external ids among its live source records.

Examples:
  # Report only
  reconcile providers

  # Repair with auto-confirm
  reconcile providers --sync --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(func(inv *propagation.Invariants) reconcile.Adapter {
			return propagation.NewProviderCountAdapter(inv)
		})
	},
}

var titlesReconcileCmd = &cobra.Command{
	Use:   "titles",
	Short: "Audit title and product provider lists",
	Long: `Every provider of a title's live source records must appear in the title's
provider list and in its product's metadata. Repairs only ever add providers.

Examples:
  # Report only
  reconcile titles

  # Show what a sync would do without writing
  reconcile titles --sync --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(func(inv *propagation.Invariants) reconcile.Adapter {
			return propagation.NewTitleProvidersAdapter(inv)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{providersReconcileCmd, titlesReconcileCmd} {
		c.Flags().BoolVar(&syncReconcile, "sync", false, "Repair divergences")
		c.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Force dry-run (no mutations even with --yes)")
		c.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm repairs (non-interactive)")
		reconcileCmd.AddCommand(c)
	}
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(newAdapter func(*propagation.Invariants) reconcile.Adapter) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	l := rt.logger

	spec := &reconcile.Spec{Adapter: newAdapter(rt.engine.Invariants())}
	opts := reconcile.ReconcileOptions{
		DoSync: syncReconcile,
		DryRun: dryRunReconcile,
	}

	l.Info("Planning reconciliation...", zap.String("adapter", spec.Adapter.Name()))
	plan, err := reconcile.ReconcileWithPlan(ctx, spec, rt.db, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	printReconcileReport(l, plan)

	if !syncReconcile {
		if plan.Summary.Mismatches > 0 {
			l.Info("No actions requested. Use --sync to repair divergences.")
		}
		return nil
	}

	if dryRunReconcile {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}

	if !confirmRepair() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	l.Info("Applying actions...")
	executed, err := reconcile.ApplyPlan(ctx, spec, rt.db, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport logs the summary and a sample of the planned actions.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("missing_stored", s.MissingStored),
		zap.Int("missing_derived", s.MissingDerived),
		zap.Int("mismatches", s.Mismatches),
	)

	for _, r := range plan.Results {
		if len(r.Mismatch) == 0 {
			continue
		}
		l.Info("Divergence",
			zap.String("key", r.Key),
			zap.String("name", r.Name),
			zap.Strings("mismatch", r.Mismatch),
		)
	}

	if len(plan.Actions) == 0 {
		return
	}
	l.Info("Planned actions", zap.Int("repair_actions", s.RepairActions))

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmRepair prompts the user for confirmation or uses the --yes flag.
func confirmRepair() bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to apply repairs: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
