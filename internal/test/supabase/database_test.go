package supabase_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartwish-backend/internal/models"
	"smartwish-backend/internal/supabase"
)

func newMockClient(t *testing.T) (*supabase.DatabaseClient, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return supabase.NewDatabaseClientFromDB(db), mock, func() { db.Close() }
}

func publishedRow(rows *sqlmock.Rows, id uuid.UUID, title string, downloads int) *sqlmock.Rows {
	return rows.AddRow(
		id.String(), title, nil, "birthday", uuid.New().String(), nil, 1,
		0.0, true, "free", "en", "us", title, nil, "{}",
		downloads, downloads, 0, 0, "published", "1.0", time.Now(), time.Now(),
	)
}

func publishedColumns() []string {
	return []string{
		"id", "title", "description", "category_id", "author_id", "design_id", "page_count",
		"price", "is_free", "license", "language", "region", "slug", "search_keywords", "tags",
		"popularity", "downloads", "views", "likes", "status", "version", "created_at", "updated_at",
	}
}

func TestListPublishedDesigns_SortByDownloads(t *testing.T) {
	client, mock, closeDB := newMockClient(t)
	defer closeDB()

	rows := sqlmock.NewRows(publishedColumns())
	publishedRow(rows, uuid.New(), "top", 20)
	publishedRow(rows, uuid.New(), "mid", 5)
	publishedRow(rows, uuid.New(), "low", 1)

	mock.ExpectQuery(`ORDER BY downloads DESC`).WillReturnRows(rows)

	designs, err := client.ListPublishedDesigns(supabase.ListPublishedFilter{SortBy: "downloads"})
	require.NoError(t, err)
	require.Len(t, designs, 3)

	assert.Equal(t, []int{20, 5, 1}, []int{designs[0].Downloads, designs[1].Downloads, designs[2].Downloads})
}

func TestListPublishedDesigns_DefaultSortAndFilters(t *testing.T) {
	client, mock, closeDB := newMockClient(t)
	defer closeDB()

	authorID := uuid.New()

	mock.ExpectQuery(`category_id = \$1 AND author_id = \$2[\s\S]+ORDER BY created_at DESC`).
		WithArgs("birthday", authorID, 20, 0).
		WillReturnRows(sqlmock.NewRows(publishedColumns()))

	designs, err := client.ListPublishedDesigns(supabase.ListPublishedFilter{
		CategoryID: "birthday",
		AuthorID:   &authorID,
	})
	require.NoError(t, err)
	assert.Empty(t, designs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAuthorByUserID_NoRows(t *testing.T) {
	client, mock, closeDB := newMockClient(t)
	defer closeDB()

	mock.ExpectQuery(`FROM authors\s+WHERE user_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "email", "is_verified", "created_at"}))

	author, err := client.GetAuthorByUserID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, author)
}

func TestGetPublishedDesignBySlug_NoRows(t *testing.T) {
	client, mock, closeDB := newMockClient(t)
	defer closeDB()

	mock.ExpectQuery(`FROM published_designs\s+WHERE slug =`).
		WillReturnRows(sqlmock.NewRows(publishedColumns()))

	pd, err := client.GetPublishedDesignBySlug("missing")
	require.NoError(t, err)
	assert.Nil(t, pd)
}

func TestCreateDesignImages_BulkInsert(t *testing.T) {
	client, mock, closeDB := newMockClient(t)
	defer closeDB()

	designID := uuid.New()
	images := []*models.DesignImage{
		{
			ID: uuid.New(), DesignID: designID, PageNumber: 1,
			ImageType: models.ImageTypePage, StoragePath: "designs/x/pages/1.webp",
			PublicURL: "https://cdn.example.com/1.png",
			FileSize:  sql.NullInt64{Int64: 1000, Valid: true}, Width: 600, Height: 900,
		},
		{
			ID: uuid.New(), DesignID: designID, PageNumber: 0,
			ImageType: models.ImageTypeCover, StoragePath: "designs/x/previews/cover.jpg",
			PublicURL: "https://cdn.example.com/cover.jpg",
			Width:     400, Height: 300,
		},
	}

	// Two rows, one statement: placeholders run through $22.
	mock.ExpectExec(`INSERT INTO design_images[\s\S]+\$22\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, client.CreateDesignImages(images))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDesignImages_Empty(t *testing.T) {
	client, _, closeDB := newMockClient(t)
	defer closeDB()

	// No statement issued for an empty batch.
	assert.NoError(t, client.CreateDesignImages(nil))
}

func TestIncrementDownloads(t *testing.T) {
	client, mock, closeDB := newMockClient(t)
	defer closeDB()

	id := uuid.New()
	mock.ExpectExec(`SET downloads = downloads \+ 1, popularity = popularity \+ 1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, client.IncrementDownloads(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, supabase.IsUniqueViolation(nil))
	assert.False(t, supabase.IsUniqueViolation(sql.ErrNoRows))
	assert.True(t, supabase.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, supabase.IsUniqueViolation(&pq.Error{Code: "23503"}))
}
