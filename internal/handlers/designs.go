package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smartwish-backend/internal/middleware"
	"smartwish-backend/internal/models"
	"smartwish-backend/internal/supabase"
)

type DesignsHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewDesignsHandler(dbClient *supabase.DatabaseClient) *DesignsHandler {
	return &DesignsHandler{
		dbClient: dbClient,
	}
}

// CreateDesign godoc
// @Summary     Create a draft design
// @Description Creates a new draft greeting-card design owned by the authenticated user
// @Tags        designs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateDesignRequest true "Draft design"
// @Success     201 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /designs [post]
func (h *DesignsHandler) CreateDesign(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	var req models.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	pages, err := json.Marshal(req.Pages)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid pages", Message: err.Error()})
		return
	}

	design := &models.Design{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Pages:       pages,
		EditedPages: json.RawMessage("{}"),
		Status:      models.DesignStatusDraft,
	}
	if req.Description != "" {
		design.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.CategoryID != "" {
		design.CategoryID = sql.NullString{String: req.CategoryID, Valid: true}
	}
	if req.SearchKeywords != "" {
		design.SearchKeywords = sql.NullString{String: req.SearchKeywords, Valid: true}
	}

	if err := h.dbClient.CreateDesign(design); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create design",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, designResponse(design))
}

// ListDesigns godoc
// @Summary     List the user's draft designs
// @Tags        designs
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DesignListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /designs [get]
func (h *DesignsHandler) ListDesigns(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	designs, err := h.dbClient.ListDesigns(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list designs",
			Message: err.Error(),
		})
		return
	}

	response := models.DesignListResponse{Designs: make([]models.DesignResponse, 0, len(designs))}
	for i := range designs {
		response.Designs = append(response.Designs, designResponse(&designs[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetDesign godoc
// @Summary     Get one draft design
// @Tags        designs
// @Produce     json
// @Security    Bearer
// @Param       design_id path string true "Design ID (UUID)"
// @Success     200 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id} [get]
func (h *DesignsHandler) GetDesign(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
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

	design, err := h.dbClient.GetDesign(designID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get design",
			Message: err.Error(),
		})
		return
	}
	if design == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "design not found"})
		return
	}

	c.JSON(http.StatusOK, designResponse(design))
}

// UpdateDesign godoc
// @Summary     Update a draft design
// @Tags        designs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       design_id path string true "Design ID (UUID)"
// @Param       request body models.UpdateDesignRequest true "Fields to update"
// @Success     200 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{design_id} [put]
func (h *DesignsHandler) UpdateDesign(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
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

	design, err := h.dbClient.GetDesign(designID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get design",
			Message: err.Error(),
		})
		return
	}
	if design == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "design not found"})
		return
	}

	var req models.UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if req.Title != "" {
		design.Title = req.Title
	}
	if req.Description != "" {
		design.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.CategoryID != "" {
		design.CategoryID = sql.NullString{String: req.CategoryID, Valid: true}
	}
	if req.SearchKeywords != "" {
		design.SearchKeywords = sql.NullString{String: req.SearchKeywords, Valid: true}
	}
	if req.Status != "" {
		switch req.Status {
		case models.DesignStatusDraft, models.DesignStatusPublished, models.DesignStatusArchived:
			design.Status = req.Status
		default:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status"})
			return
		}
	}
	if req.Pages != nil {
		pages, err := json.Marshal(req.Pages)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid pages", Message: err.Error()})
			return
		}
		design.Pages = pages
	}
	if req.EditedPages != nil {
		edited, err := json.Marshal(req.EditedPages)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid edited pages", Message: err.Error()})
			return
		}
		design.EditedPages = edited
	}

	if err := h.dbClient.UpdateDesign(design); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update design",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, designResponse(design))
}

// DeleteDesign godoc
// @Summary     Delete a draft design
// @Tags        designs
// @Produce     json
// @Security    Bearer
// @Param       design_id path string true "Design ID (UUID)"
// @Success     204 "No Content"
// @Failure     400 {object} models.ErrorResponse
// @Router      /designs/{design_id} [delete]
func (h *DesignsHandler) DeleteDesign(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
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

	if err := h.dbClient.DeleteDesign(designID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete design",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// requestUserID extracts and parses the authenticated user's id from the
// gin context, writing the error response itself on failure.
func requestUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}

	return userID, true
}

func requestUserEmail(c *gin.Context) string {
	if email, exists := c.Get(middleware.UserEmailKey); exists {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}

func designResponse(design *models.Design) models.DesignResponse {
	resp := models.DesignResponse{
		ID:         design.ID.String(),
		Title:      design.Title,
		Status:     design.Status,
		Popularity: design.Popularity,
		Downloads:  design.Downloads,
		CreatedAt:  design.CreatedAt,
		UpdatedAt:  design.UpdatedAt,
	}
	if design.Description.Valid {
		resp.Description = design.Description.String
	}
	if design.CategoryID.Valid {
		resp.CategoryID = design.CategoryID.String
	}
	if design.SearchKeywords.Valid {
		resp.SearchKeywords = design.SearchKeywords.String
	}
	if len(design.Pages) > 0 {
		// Pages are stored as JSON; a decode failure leaves them empty
		// rather than failing the response.
		var pages []models.DesignPage
		if err := json.Unmarshal(design.Pages, &pages); err == nil {
			resp.Pages = pages
		}
	}
	return resp
}
