package supabase

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"smartwish-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an existing handle. Used by tests to
// inject a sqlmock connection.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The publish flow uses it to detect slug and author races.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// --- Authors ---

func (d *DatabaseClient) GetAuthorByUserID(userID uuid.UUID) (*models.Author, error) {
	var author models.Author
	err := d.db.QueryRow(`
		SELECT id, user_id, name, email, is_verified, created_at
		FROM authors
		WHERE user_id = $1
	`, userID).Scan(
		&author.ID, &author.UserID, &author.Name,
		&author.Email, &author.IsVerified, &author.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author by user id: %w", err)
	}

	return &author, nil
}

func (d *DatabaseClient) GetAuthorByEmail(email string) (*models.Author, error) {
	var author models.Author
	err := d.db.QueryRow(`
		SELECT id, user_id, name, email, is_verified, created_at
		FROM authors
		WHERE email = $1
	`, email).Scan(
		&author.ID, &author.UserID, &author.Name,
		&author.Email, &author.IsVerified, &author.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author by email: %w", err)
	}

	return &author, nil
}

// SetAuthorUserID backfills the user identity onto an author record that
// was matched by email.
func (d *DatabaseClient) SetAuthorUserID(authorID, userID uuid.UUID) error {
	_, err := d.db.Exec(`
		UPDATE authors
		SET user_id = $1
		WHERE id = $2
	`, userID, authorID)
	if err != nil {
		return fmt.Errorf("failed to set author user id: %w", err)
	}
	return nil
}

func (d *DatabaseClient) CreateAuthor(author *models.Author) error {
	err := d.db.QueryRow(`
		INSERT INTO authors (id, user_id, name, email, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, author.ID, author.UserID, author.Name, author.Email, author.IsVerified).Scan(&author.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// --- Published designs ---

func (d *DatabaseClient) CreatePublishedDesign(pd *models.PublishedDesign) error {
	err := d.db.QueryRow(`
		INSERT INTO published_designs (
			id, title, description, category_id, author_id, design_id, page_count,
			price, is_free, license, language, region, slug, search_keywords, tags,
			popularity, downloads, views, likes, status, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at
	`, pd.ID, pd.Title, pd.Description, pd.CategoryID, pd.AuthorID, pd.DesignID,
		pd.PageCount, pd.Price, pd.IsFree, pd.License, pd.Language, pd.Region,
		pd.Slug, pd.SearchKeywords, pd.Tags, pd.Popularity, pd.Downloads,
		pd.Views, pd.Likes, pd.Status, pd.Version,
	).Scan(&pd.CreatedAt, &pd.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create published design: %w", err)
	}
	return nil
}

const publishedDesignColumns = `
	id, title, description, category_id, author_id, design_id, page_count,
	price, is_free, license, language, region, slug, search_keywords, tags,
	popularity, downloads, views, likes, status, version, created_at, updated_at
`

func scanPublishedDesign(row interface{ Scan(...interface{}) error }) (*models.PublishedDesign, error) {
	var pd models.PublishedDesign
	err := row.Scan(
		&pd.ID, &pd.Title, &pd.Description, &pd.CategoryID, &pd.AuthorID,
		&pd.DesignID, &pd.PageCount, &pd.Price, &pd.IsFree, &pd.License,
		&pd.Language, &pd.Region, &pd.Slug, &pd.SearchKeywords, &pd.Tags,
		&pd.Popularity, &pd.Downloads, &pd.Views, &pd.Likes, &pd.Status,
		&pd.Version, &pd.CreatedAt, &pd.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pd, nil
}

func (d *DatabaseClient) GetPublishedDesign(id uuid.UUID) (*models.PublishedDesign, error) {
	row := d.db.QueryRow(`
		SELECT `+publishedDesignColumns+`
		FROM published_designs
		WHERE id = $1
	`, id)
	pd, err := scanPublishedDesign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get published design: %w", err)
	}
	return pd, nil
}

func (d *DatabaseClient) GetPublishedDesignBySlug(slug string) (*models.PublishedDesign, error) {
	row := d.db.QueryRow(`
		SELECT `+publishedDesignColumns+`
		FROM published_designs
		WHERE slug = $1
	`, slug)
	pd, err := scanPublishedDesign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get published design by slug: %w", err)
	}
	return pd, nil
}

func (d *DatabaseClient) SlugExists(slug string) (bool, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM published_designs WHERE slug = $1
	`, slug).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// ListPublishedFilter narrows and orders a marketplace listing query.
type ListPublishedFilter struct {
	CategoryID   string
	AuthorID     *uuid.UUID
	FeaturedOnly bool
	SortBy       string // newest | popular | downloads | rating
	Offset       int
	Limit        int
}

func (d *DatabaseClient) ListPublishedDesigns(filter ListPublishedFilter) ([]models.PublishedDesign, error) {
	where := []string{"status IN ('published', 'featured')"}
	args := []interface{}{}

	if filter.FeaturedOnly {
		where = []string{"status = 'featured'"}
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}

	var orderBy string
	switch filter.SortBy {
	case "popular":
		orderBy = "popularity DESC"
	case "downloads":
		orderBy = "downloads DESC"
	case "rating":
		orderBy = "likes DESC"
	default:
		orderBy = "created_at DESC"
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM published_designs
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, publishedDesignColumns, strings.Join(where, " AND "), orderBy, limitPos, offsetPos)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list published designs: %w", err)
	}
	defer rows.Close()

	var designs []models.PublishedDesign
	for rows.Next() {
		pd, err := scanPublishedDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan published design: %w", err)
		}
		designs = append(designs, *pd)
	}

	return designs, rows.Err()
}

func (d *DatabaseClient) UpdatePublishedDesignStatus(id uuid.UUID, status string) error {
	_, err := d.db.Exec(`
		UPDATE published_designs
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update published design status: %w", err)
	}
	return nil
}

func (d *DatabaseClient) IncrementViews(id uuid.UUID) error {
	_, err := d.db.Exec(`
		UPDATE published_designs
		SET views = views + 1
		WHERE id = $1
	`, id)
	return err
}

func (d *DatabaseClient) IncrementDownloads(id uuid.UUID) error {
	_, err := d.db.Exec(`
		UPDATE published_designs
		SET downloads = downloads + 1, popularity = popularity + 1
		WHERE id = $1
	`, id)
	return err
}

// DeletePublishedDesign removes a published design row. Only used as the
// compensating action when image processing fails mid-publish.
func (d *DatabaseClient) DeletePublishedDesign(id uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM published_designs
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete published design: %w", err)
	}
	return nil
}

// --- Design images ---

// CreateDesignImages inserts all variant rows for a design in a single
// statement.
func (d *DatabaseClient) CreateDesignImages(images []*models.DesignImage) error {
	if len(images) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(images))
	args := make([]interface{}, 0, len(images)*11)
	for i, img := range images {
		base := i * 11
		placeholders = append(placeholders, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11,
		))
		args = append(args,
			img.ID, img.DesignID, img.PageNumber, img.ImageType, img.StoragePath,
			img.PublicURL, img.WebpURL, img.ThumbnailURL, img.FileSize,
			img.Width, img.Height,
		)
	}

	query := `
		INSERT INTO design_images (
			id, design_id, page_number, image_type, storage_path,
			public_url, webp_url, thumbnail_url, file_size, width, height
		)
		VALUES ` + strings.Join(placeholders, ", ")

	_, err := d.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to create design images: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetDesignImages(designID uuid.UUID) ([]models.DesignImage, error) {
	rows, err := d.db.Query(`
		SELECT id, design_id, page_number, image_type, storage_path,
		       public_url, webp_url, thumbnail_url, file_size, width, height, created_at
		FROM design_images
		WHERE design_id = $1
		ORDER BY page_number ASC
	`, designID)
	if err != nil {
		return nil, fmt.Errorf("failed to get design images: %w", err)
	}
	defer rows.Close()

	var images []models.DesignImage
	for rows.Next() {
		var img models.DesignImage
		err := rows.Scan(
			&img.ID, &img.DesignID, &img.PageNumber, &img.ImageType,
			&img.StoragePath, &img.PublicURL, &img.WebpURL, &img.ThumbnailURL,
			&img.FileSize, &img.Width, &img.Height, &img.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan design image: %w", err)
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

func (d *DatabaseClient) DeleteDesignImages(designID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM design_images
		WHERE design_id = $1
	`, designID)
	if err != nil {
		return fmt.Errorf("failed to delete design images: %w", err)
	}
	return nil
}

// --- Draft designs ---

func (d *DatabaseClient) CreateDesign(design *models.Design) error {
	err := d.db.QueryRow(`
		INSERT INTO designs (id, user_id, title, description, category_id, pages, edited_pages, status, search_keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, design.ID, design.UserID, design.Title, design.Description, design.CategoryID,
		design.Pages, design.EditedPages, design.Status, design.SearchKeywords,
	).Scan(&design.CreatedAt, &design.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create design: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetDesign(id, userID uuid.UUID) (*models.Design, error) {
	var design models.Design
	err := d.db.QueryRow(`
		SELECT id, user_id, title, description, category_id, pages, edited_pages,
		       status, popularity, downloads, search_keywords, created_at, updated_at
		FROM designs
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&design.ID, &design.UserID, &design.Title, &design.Description,
		&design.CategoryID, &design.Pages, &design.EditedPages, &design.Status,
		&design.Popularity, &design.Downloads, &design.SearchKeywords,
		&design.CreatedAt, &design.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	return &design, nil
}

func (d *DatabaseClient) ListDesigns(userID uuid.UUID) ([]models.Design, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, title, description, category_id, pages, edited_pages,
		       status, popularity, downloads, search_keywords, created_at, updated_at
		FROM designs
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	var designs []models.Design
	for rows.Next() {
		var design models.Design
		err := rows.Scan(
			&design.ID, &design.UserID, &design.Title, &design.Description,
			&design.CategoryID, &design.Pages, &design.EditedPages, &design.Status,
			&design.Popularity, &design.Downloads, &design.SearchKeywords,
			&design.CreatedAt, &design.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, design)
	}

	return designs, rows.Err()
}

func (d *DatabaseClient) UpdateDesign(design *models.Design) error {
	_, err := d.db.Exec(`
		UPDATE designs
		SET title = $1, description = $2, category_id = $3, pages = $4,
		    edited_pages = $5, status = $6, search_keywords = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`, design.Title, design.Description, design.CategoryID, design.Pages,
		design.EditedPages, design.Status, design.SearchKeywords, design.ID, design.UserID)
	if err != nil {
		return fmt.Errorf("failed to update design: %w", err)
	}
	return nil
}

func (d *DatabaseClient) UpdateDesignStatus(id uuid.UUID, status string) error {
	_, err := d.db.Exec(`
		UPDATE designs
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update design status: %w", err)
	}
	return nil
}

func (d *DatabaseClient) DeleteDesign(id, userID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM designs
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	return nil
}

// --- Analytics ---

// InsertAnalyticsEvent is the direct-DB fallback used when the PostgREST
// path is unavailable. Callers treat failures as non-fatal.
func (d *DatabaseClient) InsertAnalyticsEvent(event *models.AnalyticsEvent) error {
	payload, _ := json.Marshal(event.Payload)
	_, err := d.db.Exec(`
		INSERT INTO analytics_events (id, event_type, design_id, user_id, payload)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5)
	`, uuid.New(), event.EventType, event.DesignID, event.UserID, payload)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
