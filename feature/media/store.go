package media

import (
	"context"
	"errors"
	"fmt"

	"game-catalog/feature/catalog"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned when the product does not exist.
var ErrProductNotFound = errors.New("product not found")

// Store reads media rows from the catalog.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadForProduct collects the media of every game of the product's title.
func (s *Store) LoadForProduct(ctx context.Context, productID uint) (*Collection, error) {
	db := s.db.WithContext(ctx)

	var product catalog.Product
	if err := db.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}

	var gameIDs []uint
	if err := db.Model(&catalog.VideoGame{}).
		Joins("JOIN video_game_titles ON video_game_titles.id = video_games.video_game_title_id").
		Where("video_game_titles.product_id = ?", productID).
		Order("video_games.id").
		Pluck("video_games.id", &gameIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load games of product %d: %w", productID, err)
	}
	if len(gameIDs) == 0 {
		return NewCollection(nil, nil), nil
	}

	var images []catalog.Image
	if err := db.Where("video_game_id IN ?", gameIDs).Order("id").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to load images of product %d: %w", productID, err)
	}
	var videos []catalog.Video
	if err := db.Where("video_game_id IN ?", gameIDs).Order("id").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to load videos of product %d: %w", productID, err)
	}

	var imageItems, videoItems []Item
	for _, row := range images {
		imageItems = append(imageItems, ImagesFromRow(row)...)
	}
	for _, row := range videos {
		videoItems = append(videoItems, VideosFromRow(row)...)
	}
	return NewCollection(imageItems, videoItems), nil
}
