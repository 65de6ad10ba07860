package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"game-catalog/feature/catalog"
	"game-catalog/feature/propagation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	propagateAll      bool
	propagateProvider string
	propagateTimeout  time.Duration
)

// propagateCmd re-runs invariant enforcement and propagation for source records.
var propagateCmd = &cobra.Command{
	Use:   "propagate [source-id...]",
	Short: "Backfill propagation for source records",
	Long: `Re-runs the created path for existing source records: invariants are enforced
and propagation jobs are dispatched, then the queue is drained.

Examples:
  # Specific records
  propagate 12 13 14

  # Every live record of one provider
  propagate --all --provider steam`,
	RunE: runPropagate,
}

func init() {
	propagateCmd.Flags().BoolVar(&propagateAll, "all", false, "Propagate every live source record")
	propagateCmd.Flags().StringVar(&propagateProvider, "provider", "", "Restrict --all to one provider")
	propagateCmd.Flags().DurationVar(&propagateTimeout, "timeout", 30*time.Minute, "Maximum time to wait for the queue to drain")
	RootCmd.AddCommand(propagateCmd)
}

func runPropagate(cmd *cobra.Command, args []string) error {
	if !propagateAll && len(args) == 0 {
		return errors.New("pass source ids or --all")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	l := rt.logger

	ids, err := sourceIDs(ctx, rt, args)
	if err != nil {
		return err
	}
	l.Info("Starting propagation backfill", zap.Int("sources", len(ids)))

	rt.dispatcher.Start(ctx)
	defer rt.dispatcher.Stop()

	var (
		dispatched int
		failures   []error
	)
	for _, id := range ids {
		if err := rt.engine.Resync(ctx, id); err != nil {
			if errors.Is(err, propagation.ErrSourceNotFound) {
				l.Warn("Source record not found", zap.Uint("source_id", id))
				continue
			}
			failures = append(failures, err)
			continue
		}
		dispatched++
	}

	drainCtx, drainCancel := context.WithTimeout(ctx, propagateTimeout)
	defer drainCancel()
	if err := rt.dispatcher.Drain(drainCtx); err != nil {
		failures = append(failures, fmt.Errorf("queue did not drain: %w", err))
	}

	l.Info("Propagation backfill finished",
		zap.Int("dispatched", dispatched),
		zap.Int("failed", len(failures)),
	)
	return errors.Join(failures...)
}

func sourceIDs(ctx context.Context, rt *runtime, args []string) ([]uint, error) {
	if !propagateAll {
		ids := make([]uint, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseUint(arg, 10, 64)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("invalid source id %q", arg)
			}
			ids = append(ids, uint(id))
		}
		return ids, nil
	}

	query := rt.db.WithContext(ctx).Model(&catalog.SourceRecord{}).Order("id")
	if propagateProvider != "" {
		query = query.Where("provider = ?", catalog.NormalizeProvider(propagateProvider))
	}
	var ids []uint
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list source records: %w", err)
	}
	return ids, nil
}
