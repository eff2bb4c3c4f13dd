package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartwish-backend/internal/handlers"
	"smartwish-backend/internal/middleware"
	"smartwish-backend/internal/models"
	"smartwish-backend/internal/supabase"
)

func designsRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := handlers.NewDesignsHandler(supabase.NewDatabaseClientFromDB(db))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
	})
	r.POST("/designs", h.CreateDesign)
	r.GET("/designs/:design_id", h.GetDesign)
	r.DELETE("/designs/:design_id", h.DeleteDesign)
	return r, mock
}

func TestCreateDesign(t *testing.T) {
	r, mock := designsRouter(t, uuid.New())

	mock.ExpectQuery(`INSERT INTO designs`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	body := `{
		"title": "Birthday Draft",
		"category_id": "birthday",
		"pages": [{"header": "Happy Birthday", "image": "", "body": "", "footer": ""}]
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/designs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.DesignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Birthday Draft", resp.Title)
	assert.Equal(t, models.DesignStatusDraft, resp.Status)
	require.Len(t, resp.Pages, 1)
	assert.Equal(t, "Happy Birthday", resp.Pages[0].Header)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDesign_NotFound(t *testing.T) {
	r, mock := designsRouter(t, uuid.New())

	mock.ExpectQuery(`FROM designs\s+WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/designs/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDesign_InvalidID(t *testing.T) {
	r, _ := designsRouter(t, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/designs/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteDesign(t *testing.T) {
	userID := uuid.New()
	r, mock := designsRouter(t, userID)

	designID := uuid.New()
	mock.ExpectExec(`DELETE FROM designs`).
		WithArgs(designID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/designs/"+designID.String(), nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDesign_NoDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handlers.NewDesignsHandler(nil)

	r := gin.New()
	r.POST("/designs", h.CreateDesign)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/designs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
