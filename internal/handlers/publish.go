package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smartwish-backend/internal/models"
	"smartwish-backend/internal/services"
)

type PublishHandler struct {
	service *services.PublishService
}

func NewPublishHandler(service *services.PublishService) *PublishHandler {
	return &PublishHandler{
		service: service,
	}
}

// Publish godoc
// @Summary     Publish a design to the marketplace
// @Description Resolves the author, generates a unique slug, processes page images into webp/png/thumbnail variants plus cover/grid/carousel previews, uploads everything to storage and records the published design. If image processing fails the published record is rolled back.
// @Tags        marketplace
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.PublishRequest true "Publish payload with data-URI page images"
// @Success     201 {object} models.PublishedDesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /marketplace/publish [post]
func (h *PublishHandler) Publish(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "publish service not available"})
		return
	}

	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	var req models.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	input := services.PublishInput{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		UserID:         userID,
		UserEmail:      requestUserEmail(c),
		SearchKeywords: req.SearchKeywords,
		Tags:           req.Tags,
		Images:         req.Images,
		Language:       req.Language,
		Region:         req.Region,
	}
	if req.OriginalDesignID != "" {
		originalID, err := uuid.Parse(req.OriginalDesignID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid original design id"})
			return
		}
		input.OriginalDesignID = &originalID
	}

	pd, err := h.service.PublishDesign(c.Request.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrSlugSpaceExhausted) {
			status = http.StatusConflict
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "failed to publish design",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, publishedDesignResponse(pd, nil))
}

// Unpublish godoc
// @Summary     Unpublish a marketplace design
// @Description Archives a published design after verifying the requester's author identity owns it. Stored images are left in place.
// @Tags        marketplace
// @Produce     json
// @Security    Bearer
// @Param       design_id path string true "Published design ID (UUID)"
// @Success     200 {object} models.UnpublishResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /marketplace/designs/{design_id}/unpublish [post]
func (h *PublishHandler) Unpublish(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "publish service not available"})
		return
	}

	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	designID, err := uuid.Parse(c.Param("design_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid design id"})
		return
	}

	pd, err := h.service.UnpublishDesign(designID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "design not found"})
		case errors.Is(err, services.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "not authorized to unpublish this design"})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to unpublish design",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.UnpublishResponse{
		ID:     pd.ID.String(),
		Status: pd.Status,
	})
}

func publishedDesignResponse(pd *models.PublishedDesign, imgs []models.DesignImage) models.PublishedDesignResponse {
	resp := models.PublishedDesignResponse{
		ID:         pd.ID.String(),
		Title:      pd.Title,
		CategoryID: pd.CategoryID,
		AuthorID:   pd.AuthorID.String(),
		PageCount:  pd.PageCount,
		Price:      pd.Price,
		IsFree:     pd.IsFree,
		License:    pd.License,
		Language:   pd.Language,
		Region:     pd.Region,
		Slug:       pd.Slug,
		Tags:       pd.Tags,
		Popularity: pd.Popularity,
		Downloads:  pd.Downloads,
		Views:      pd.Views,
		Likes:      pd.Likes,
		Status:     pd.Status,
		Version:    pd.Version,
		CreatedAt:  pd.CreatedAt,
		UpdatedAt:  pd.UpdatedAt,
	}
	if pd.Description.Valid {
		resp.Description = pd.Description.String
	}
	if pd.DesignID.Valid {
		resp.DesignID = pd.DesignID.UUID.String()
	}
	if pd.SearchKeywords.Valid {
		resp.SearchKeywords = pd.SearchKeywords.String
	}
	for i := range imgs {
		resp.Images = append(resp.Images, designImageResponse(&imgs[i]))
	}
	return resp
}

func designImageResponse(img *models.DesignImage) models.DesignImageResponse {
	resp := models.DesignImageResponse{
		ID:         img.ID.String(),
		PageNumber: img.PageNumber,
		ImageType:  img.ImageType,
		PublicURL:  img.PublicURL,
		Width:      img.Width,
		Height:     img.Height,
	}
	if img.WebpURL.Valid {
		resp.WebpURL = img.WebpURL.String
	}
	if img.ThumbnailURL.Valid {
		resp.ThumbnailURL = img.ThumbnailURL.String
	}
	if img.FileSize.Valid {
		resp.FileSize = img.FileSize.Int64
	}
	return resp
}
