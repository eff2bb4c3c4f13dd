package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Author is the publishing identity linked to a user account. Created
// lazily on first publish and never deleted. UserID may be empty on rows
// created before the user had signed in (backfilled by email lookup).
type Author struct {
	ID         uuid.UUID
	UserID     uuid.NullUUID
	Name       string
	Email      sql.NullString
	IsVerified bool
	CreatedAt  time.Time
}

// PublishedDesign is the marketplace-visible projection of a Design,
// created at publish time. Slug is globally unique. DesignID is the
// back-reference to the originating draft, set at creation and never
// mutated.
type PublishedDesign struct {
	ID             uuid.UUID
	Title          string
	Description    sql.NullString
	CategoryID     string
	AuthorID       uuid.UUID
	DesignID       uuid.NullUUID
	PageCount      int
	Price          float64
	IsFree         bool
	License        string
	Language       string
	Region         string
	Slug           string
	SearchKeywords sql.NullString
	Tags           pq.StringArray
	Popularity     int
	Downloads      int
	Views          int
	Likes          int
	Status         string
	Version        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DesignImage is one generated variant of a published design's artwork.
// Page rows carry the page number (1-based); preview rows (cover, grid,
// carousel) use page number 0. Rows are created in bulk after upload and
// never updated.
type DesignImage struct {
	ID           uuid.UUID
	DesignID     uuid.UUID
	PageNumber   int
	ImageType    string
	StoragePath  string
	PublicURL    string
	CDNURL       sql.NullString
	WebpURL      sql.NullString
	ThumbnailURL sql.NullString
	FileSize     sql.NullInt64
	Width        int
	Height       int
	CreatedAt    time.Time
}

// AnalyticsEvent is a fire-and-forget usage event. Recording one must
// never block or fail a primary operation.
type AnalyticsEvent struct {
	EventType string                 `json:"event_type"`
	DesignID  string                 `json:"design_id,omitempty"`
	UserID    string                 `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Published design statuses.
const (
	PublishedStatusPublished = "published"
	PublishedStatusFeatured  = "featured"
	PublishedStatusArchived  = "archived"
	PublishedStatusRemoved   = "removed"
)

// Image variant type tags.
const (
	ImageTypePage      = "page"
	ImageTypeThumbnail = "thumbnail"
	ImageTypeCover     = "cover"
	ImageTypeGrid      = "grid"
	ImageTypeCarousel  = "carousel"
)

// LicenseFree is the only license issued by the publish flow; pricing is
// defaulted to free at publish time.
const LicenseFree = "free"
