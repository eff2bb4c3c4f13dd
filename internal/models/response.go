package models

import "time"

type DesignResponse struct {
	ID             string       `json:"design_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	CategoryID     string       `json:"category_id,omitempty"`
	Pages          []DesignPage `json:"pages,omitempty"`
	Status         string       `json:"status"`
	Popularity     int          `json:"popularity"`
	Downloads      int          `json:"downloads"`
	SearchKeywords string       `json:"search_keywords,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type DesignListResponse struct {
	Designs []DesignResponse `json:"designs"`
}

type PublishedDesignResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	CategoryID     string                `json:"category_id"`
	AuthorID       string                `json:"author_id"`
	DesignID       string                `json:"design_id,omitempty"`
	PageCount      int                   `json:"page_count"`
	Price          float64               `json:"price"`
	IsFree         bool                  `json:"is_free"`
	License        string                `json:"license"`
	Language       string                `json:"language"`
	Region         string                `json:"region"`
	Slug           string                `json:"slug"`
	SearchKeywords string                `json:"search_keywords,omitempty"`
	Tags           []string              `json:"tags,omitempty"`
	Popularity     int                   `json:"popularity"`
	Downloads      int                   `json:"downloads"`
	Views          int                   `json:"views"`
	Likes          int                   `json:"likes"`
	Status         string                `json:"status"`
	Version        string                `json:"version"`
	Images         []DesignImageResponse `json:"images,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type DesignImageResponse struct {
	ID           string `json:"id"`
	PageNumber   int    `json:"page_number"`
	ImageType    string `json:"image_type"`
	PublicURL    string `json:"public_url"`
	WebpURL      string `json:"webp_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

type PublishedListResponse struct {
	Designs []PublishedDesignResponse `json:"designs"`
	Offset  int                       `json:"offset"`
	Limit   int                       `json:"limit"`
}

type UnpublishResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type DownloadResponse struct {
	ID        string `json:"id"`
	Downloads int    `json:"downloads"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
