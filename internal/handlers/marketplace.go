package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smartwish-backend/internal/middleware"
	"smartwish-backend/internal/models"
	"smartwish-backend/internal/services"
	"smartwish-backend/internal/supabase"
)

type MarketplaceHandler struct {
	service *services.PublishService
}

func NewMarketplaceHandler(service *services.PublishService) *MarketplaceHandler {
	return &MarketplaceHandler{
		service: service,
	}
}

// ListDesigns godoc
// @Summary     Browse published marketplace designs
// @Description Lists published designs with optional category/author/featured filters, sorted by newest, popular, downloads or rating.
// @Tags        marketplace
// @Produce     json
// @Param       category_id query string false "Filter by category"
// @Param       author_id query string false "Filter by author (UUID)"
// @Param       featured query bool false "Featured designs only"
// @Param       sort_by query string false "newest | popular | downloads | rating" default(newest)
// @Param       offset query int false "Pagination offset"
// @Param       limit query int false "Page size (max 100)"
// @Success     200 {object} models.PublishedListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /marketplace/designs [get]
func (h *MarketplaceHandler) ListDesigns(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "publish service not available"})
		return
	}

	filter := supabase.ListPublishedFilter{
		CategoryID: c.Query("category_id"),
		SortBy:     c.DefaultQuery("sort_by", "newest"),
	}

	switch filter.SortBy {
	case "newest", "popular", "downloads", "rating":
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid sort_by"})
		return
	}

	if authorIDStr := c.Query("author_id"); authorIDStr != "" {
		authorID, err := uuid.Parse(authorIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	if featured := c.Query("featured"); featured != "" {
		filter.FeaturedOnly = featured == "true"
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid offset"})
			return
		}
		filter.Offset = n
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
			return
		}
		filter.Limit = n
	}

	results, err := h.service.ListPublishedDesigns(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list designs",
			Message: err.Error(),
		})
		return
	}

	response := models.PublishedListResponse{
		Designs: make([]models.PublishedDesignResponse, 0, len(results)),
		Offset:  filter.Offset,
		Limit:   filter.Limit,
	}
	for i := range results {
		response.Designs = append(response.Designs,
			publishedDesignResponse(&results[i].PublishedDesign, results[i].Images))
	}

	c.JSON(http.StatusOK, response)
}

// GetDesign godoc
// @Summary     Get one published design
// @Description Fetches a published design by id or slug, with all image variants. Bumps the view counter.
// @Tags        marketplace
// @Produce     json
// @Param       design_id path string true "Published design ID (UUID) or slug"
// @Success     200 {object} models.PublishedDesignResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /marketplace/designs/{design_id} [get]
func (h *MarketplaceHandler) GetDesign(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "publish service not available"})
		return
	}

	result, err := h.service.GetPublishedDesign(c.Param("design_id"), optionalUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "design not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get design",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, publishedDesignResponse(&result.PublishedDesign, result.Images))
}

// Download godoc
// @Summary     Record a design download
// @Description Increments the download and popularity counters for a published design.
// @Tags        marketplace
// @Produce     json
// @Param       design_id path string true "Published design ID (UUID)"
// @Success     200 {object} models.DownloadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /marketplace/designs/{design_id}/download [post]
func (h *MarketplaceHandler) Download(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "publish service not available"})
		return
	}

	designID, err := uuid.Parse(c.Param("design_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid design id"})
		return
	}

	pd, err := h.service.RecordDownload(designID, optionalUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "design not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to record download",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.DownloadResponse{
		ID:        pd.ID.String(),
		Downloads: pd.Downloads,
	})
}

// optionalUserID returns the authenticated user id when present. The
// browse endpoints are unauthenticated; the id only enriches analytics.
func optionalUserID(c *gin.Context) string {
	if userID, exists := c.Get(middleware.UserIDKey); exists {
		if s, ok := userID.(string); ok {
			return s
		}
	}
	return ""
}
