package models

type CreateDesignRequest struct {
	Title          string       `json:"title" binding:"required"`
	Description    string       `json:"description,omitempty"`
	CategoryID     string       `json:"category_id,omitempty"`
	Pages          []DesignPage `json:"pages,omitempty"`
	SearchKeywords string       `json:"search_keywords,omitempty"`
}

type UpdateDesignRequest struct {
	Title          string       `json:"title,omitempty"`
	Description    string       `json:"description,omitempty"`
	CategoryID     string       `json:"category_id,omitempty"`
	Pages          []DesignPage `json:"pages,omitempty"`
	EditedPages    ExtraPages   `json:"edited_pages,omitempty"`
	SearchKeywords string       `json:"search_keywords,omitempty"`
	Status         string       `json:"status,omitempty"`
}

// ExtraPages is a sparse map of page index to replacement image data URI.
type ExtraPages map[string]string

type PublishRequest struct {
	Title            string                 `json:"title" binding:"required"`
	Description      string                 `json:"description,omitempty"`
	CategoryID       string                 `json:"category_id" binding:"required"`
	OriginalDesignID string                 `json:"original_design_id,omitempty"`
	TemplateData     map[string]interface{} `json:"template_data,omitempty"`
	SearchKeywords   string                 `json:"search_keywords,omitempty"`
	Tags             []string               `json:"tags,omitempty"`
	// Images are full-page raster images as data URIs, one per page.
	Images   []string `json:"images" binding:"required,min=1"`
	Language string   `json:"language,omitempty"`
	Region   string   `json:"region,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
