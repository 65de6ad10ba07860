package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"

	"game-catalog/core/storage"
	"game-catalog/feature/media"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportMedia    bool
	propagateMedia bool
)

// mediaCmd prints the ranked media views of one product.
var mediaCmd = &cobra.Command{
	Use:   "media <product-id>",
	Short: "Show the ranked media of a product",
	Long: `Prints the primary image, primary cover image, primary video, gallery and
trailers of a product as JSON.

Examples:
  # Print to stdout
  media 42

  # Rebuild media rows from payloads first, then export to object storage
  media 42 --propagate --export`,
	Args: cobra.ExactArgs(1),
	RunE: runMedia,
}

func init() {
	mediaCmd.Flags().BoolVar(&exportMedia, "export", false, "Write the view to object storage under storage.export_prefix")
	mediaCmd.Flags().BoolVar(&propagateMedia, "propagate", false, "Re-run media propagation for every game of the product first")
	RootCmd.AddCommand(mediaCmd)
}

func runMedia(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	productID := uint(id)

	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if propagateMedia {
		if err := repropagateMedia(ctx, rt, productID); err != nil {
			return err
		}
	}

	view, err := media.NewService(rt.db, nil, rt.logger).ProductMedia(ctx, productID)
	if err != nil {
		if errors.Is(err, media.ErrProductNotFound) {
			return fmt.Errorf("product %d not found", productID)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to print media view: %w", err)
	}

	if !exportMedia {
		return nil
	}
	if rt.storage == nil {
		return errors.New("storage is not configured")
	}
	object := path.Join(rt.cfg.Storage.ExportPrefix, fmt.Sprintf("%d.json", productID))
	if err := storage.WriteJSON(ctx, rt.storage, rt.cfg.Storage.Bucket, object, view); err != nil {
		return err
	}
	rt.logger.Info("Exported media view", zap.String("bucket", rt.cfg.Storage.Bucket), zap.String("object", object))
	return nil
}

// repropagateMedia runs the media collaborator inline for every game of the product.
func repropagateMedia(ctx context.Context, rt *runtime, productID uint) error {
	var gameIDs []uint
	if err := rt.db.WithContext(ctx).
		Table("video_games").
		Joins("JOIN video_game_titles ON video_game_titles.id = video_games.video_game_title_id").
		Where("video_game_titles.product_id = ?", productID).
		Order("video_games.id").
		Pluck("video_games.id", &gameIDs).Error; err != nil {
		return fmt.Errorf("failed to list games of product %d: %w", productID, err)
	}

	var failures []error
	for _, gameID := range gameIDs {
		if err := rt.media.Propagate(ctx, gameID); err != nil {
			failures = append(failures, fmt.Errorf("game %d: %w", gameID, err))
		}
	}
	return errors.Join(failures...)
}
