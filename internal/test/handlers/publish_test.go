package handlers_test

import (
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
	"smartwish-backend/internal/services"
	"smartwish-backend/internal/supabase"
)

// publishRouter injects a fixed authenticated identity the way the auth
// middleware would.
func publishRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := services.NewPublishService(supabase.NewDatabaseClientFromDB(db), nil, nil, nil)
	h := handlers.NewPublishHandler(service)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID.String())
		c.Set(middleware.UserEmailKey, "tester@example.com")
	})
	r.POST("/marketplace/publish", h.Publish)
	r.POST("/marketplace/designs/:design_id/unpublish", h.Unpublish)
	return r, mock
}

func TestPublish_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handlers.NewPublishHandler(services.NewPublishService(nil, nil, nil, nil))

	r := gin.New()
	r.POST("/marketplace/publish", h.Publish)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/marketplace/publish", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublish_MissingRequiredFields(t *testing.T) {
	r, _ := publishRouter(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/marketplace/publish",
		strings.NewReader(`{"title": "My Card"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestPublish_InvalidOriginalDesignID(t *testing.T) {
	r, _ := publishRouter(t, uuid.New())

	body := `{
		"title": "My Card",
		"category_id": "birthday",
		"images": ["data:image/png;base64,AAAA"],
		"original_design_id": "not-a-uuid"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/marketplace/publish", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid original design id")
}

func TestUnpublish_InvalidDesignID(t *testing.T) {
	r, _ := publishRouter(t, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/marketplace/designs/abc/unpublish", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid design id")
}

func TestUnpublish_Forbidden(t *testing.T) {
	userID := uuid.New()
	r, mock := publishRouter(t, userID)

	designID := uuid.New()
	ownerAuthorID := uuid.New()

	mock.ExpectQuery(`FROM published_designs\s+WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "category_id", "author_id", "design_id", "page_count",
			"price", "is_free", "license", "language", "region", "slug", "search_keywords", "tags",
			"popularity", "downloads", "views", "likes", "status", "version", "created_at", "updated_at",
		}).AddRow(
			designID.String(), "My Card", nil, "birthday", ownerAuthorID.String(), nil, 1,
			0.0, true, "free", "en", "us", "my-card", nil, "{}",
			0, 0, 0, 0, "published", "1.0", time.Now(), time.Now(),
		))
	mock.ExpectQuery(`FROM authors\s+WHERE user_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "email", "is_verified", "created_at"}).
			AddRow(uuid.New().String(), userID.String(), "tester", "tester@example.com", false, time.Now()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/marketplace/designs/"+designID.String()+"/unpublish", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not authorized")
}
