package catalog

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is the top-level comparable item. Metadata carries the providers list.
type Product struct {
	ID        uint                                `gorm:"primaryKey" json:"id"`
	Slug      string                              `gorm:"size:191;uniqueIndex" json:"slug"`
	Name      string                              `gorm:"size:255" json:"name"`
	Type      string                              `gorm:"size:32;default:game" json:"type"`
	Metadata  datatypes.JSONType[ProductMetadata] `json:"metadata"`
	CreatedAt time.Time                           `json:"created_at"`
	UpdatedAt time.Time                           `json:"updated_at"`
}

// TableName overrides the table name used by Product.
func (Product) TableName() string { return "products" }

// Title is the cross-provider identity of a game, 1:1 with Product.
type Title struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	ProductID      uint                        `gorm:"uniqueIndex" json:"product_id"`
	Name           string                      `gorm:"size:255" json:"name"`
	NormalizedName string                      `gorm:"size:191;uniqueIndex" json:"normalized_name"`
	Slug           string                      `gorm:"size:191;uniqueIndex" json:"slug"`
	Providers      datatypes.JSONSlice[string] `json:"providers"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// TableName overrides the table name used by Title.
func (Title) TableName() string { return "video_game_titles" }

// SourceRecord is one raw ingestion record per (provider, external id).
type SourceRecord struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	VideoGameTitleID  uint           `gorm:"index" json:"video_game_title_id"`
	VideoGameSourceID *uint          `gorm:"index" json:"video_game_source_id"`
	Provider          string         `gorm:"size:64;uniqueIndex:idx_title_sources_provider_external" json:"provider"`
	ExternalID        string         `gorm:"size:128;uniqueIndex:idx_title_sources_provider_external" json:"external_id"`
	Payload           datatypes.JSON `json:"payload"`
	Name              *string        `gorm:"size:255" json:"name"`
	Description       *string        `gorm:"type:text" json:"description"`
	Rating            *float64       `json:"rating"`
	RatingCount       *int           `json:"rating_count"`
	ReleaseDate       *time.Time     `json:"release_date"`
	Developer         *string        `gorm:"size:255" json:"developer"`
	Publisher         *string        `gorm:"size:255" json:"publisher"`
	Genre             *string        `gorm:"size:255" json:"genre"`
	Platform          *string        `gorm:"size:255" json:"platform"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName overrides the table name used by SourceRecord.
func (SourceRecord) TableName() string { return "video_game_title_sources" }

// VideoGame is the provider-scoped projection keyed by (title, provider, external id).
type VideoGame struct {
	ID               uint                               `gorm:"primaryKey" json:"id"`
	VideoGameTitleID uint                               `gorm:"uniqueIndex:idx_video_games_title_provider_external" json:"video_game_title_id"`
	Provider         string                             `gorm:"size:64;uniqueIndex:idx_video_games_title_provider_external" json:"provider"`
	ExternalID       string                             `gorm:"size:128;uniqueIndex:idx_video_games_title_provider_external" json:"external_id"`
	Name             string                             `gorm:"size:255" json:"name"`
	Rating           *float64                           `json:"rating"`
	ReleaseDate      *time.Time                         `json:"release_date"`
	Attributes       datatypes.JSONType[GameAttributes] `json:"attributes"`
	CreatedAt        time.Time                          `json:"created_at"`
	UpdatedAt        time.Time                          `json:"updated_at"`
}

// TableName overrides the table name used by VideoGame.
func (VideoGame) TableName() string { return "video_games" }

// VideoGameSource is the provider registration row, one per provider string.
type VideoGameSource struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Provider    string            `gorm:"size:64;uniqueIndex" json:"provider"`
	DisplayName string            `gorm:"size:128" json:"display_name"`
	Category    string            `gorm:"size:64" json:"category"`
	Slug        string            `gorm:"size:128" json:"slug"`
	BaseURL     *string           `gorm:"size:255" json:"base_url"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	ItemsCount  int64             `json:"items_count"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TableName overrides the table name used by VideoGameSource.
func (VideoGameSource) TableName() string { return "video_game_sources" }

// MediaDetail is the structured per-item side channel of an Image or Video row.
// Entries are positionally aligned with the row's URLs.
type MediaDetail struct {
	ID          uint           `json:"id,omitempty"`
	URL         string         `json:"url"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Title       string         `json:"title,omitempty"`
	Caption     string         `json:"caption,omitempty"`
	License     string         `json:"license,omitempty"`
	LicenseURL  string         `json:"license_url,omitempty"`
	Attribution string         `json:"attribution,omitempty"`
	Width       *int           `json:"width,omitempty"`
	Height      *int           `json:"height,omitempty"`
	Quality     *float64       `json:"quality,omitempty"`
	Ordinal     *int           `json:"ordinal,omitempty"`
	Kind        string         `json:"kind,omitempty"`
	IsPrimary   bool           `json:"is_primary,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	FetchedAt   *time.Time     `json:"fetched_at,omitempty"`
}

// Image holds every image URL one provider supplied for one game.
type Image struct {
	ID          uint                             `gorm:"primaryKey" json:"id"`
	VideoGameID uint                             `gorm:"uniqueIndex:idx_images_game_provider" json:"video_game_id"`
	Provider    string                           `gorm:"size:64;uniqueIndex:idx_images_game_provider" json:"provider"`
	URLs        datatypes.JSONSlice[string]      `json:"urls"`
	Details     datatypes.JSONSlice[MediaDetail] `json:"details"`
	CreatedAt   time.Time                        `json:"created_at"`
	UpdatedAt   time.Time                        `json:"updated_at"`
}

// TableName overrides the table name used by Image.
func (Image) TableName() string { return "images" }

// Video holds every video URL one provider supplied for one game.
type Video struct {
	ID          uint                             `gorm:"primaryKey" json:"id"`
	VideoGameID uint                             `gorm:"uniqueIndex:idx_videos_game_provider" json:"video_game_id"`
	Provider    string                           `gorm:"size:64;uniqueIndex:idx_videos_game_provider" json:"provider"`
	URLs        datatypes.JSONSlice[string]      `json:"urls"`
	Details     datatypes.JSONSlice[MediaDetail] `json:"details"`
	CreatedAt   time.Time                        `json:"created_at"`
	UpdatedAt   time.Time                        `json:"updated_at"`
}

// TableName overrides the table name used by Video.
func (Video) TableName() string { return "videos" }
