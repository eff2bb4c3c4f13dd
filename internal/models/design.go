package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Design is a user's draft greeting card. Drafts are owned exclusively by
// the creating user and transition draft -> published -> archived rather
// than being deleted when published.
type Design struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Title          string
	Description    sql.NullString
	CategoryID     sql.NullString
	Pages          json.RawMessage
	EditedPages    json.RawMessage
	Status         string
	Popularity     int
	Downloads      int
	SearchKeywords sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DesignPage is one page of a draft design. Image is either a storage URL
// or a data URI supplied by the editor.
type DesignPage struct {
	Header string `json:"header,omitempty"`
	Image  string `json:"image,omitempty"`
	Body   string `json:"body,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// Draft design statuses.
const (
	DesignStatusDraft     = "draft"
	DesignStatusPublished = "published"
	DesignStatusArchived  = "archived"
)
