package services

import (
	"context"
	"database/sql"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"smartwish-backend/internal/images"
	"smartwish-backend/internal/models"
	"smartwish-backend/internal/supabase"
)

const (
	maxSlugAttempts = 1000

	defaultLanguage = "en"
	defaultRegion   = "us"
	initialVersion  = "1.0"

	// Preview and thumbnail file sizes are recorded as estimates derived
	// from the summed page-variant bytes, not measured byte counts.
	previewSizePct   = 5
	thumbnailSizePct = 10
)

// VariantPipeline is the image-processing dependency of the publish flow.
// Satisfied by *images.Processor; tests substitute a stub.
type VariantPipeline interface {
	DecodePages(dataURIs []string) ([]image.Image, error)
	ProcessPages(ctx context.Context, designID uuid.UUID, pages []image.Image) ([]images.PageResult, error)
	ProcessPreviews(ctx context.Context, designID uuid.UUID, pages []image.Image, title string) (*images.PreviewSet, error)
}

// PublishService sequences the publish pipeline: author resolution, slug
// generation, record insert, image variant processing and metadata
// persistence, with compensating deletion if processing fails partway.
type PublishService struct {
	db        *supabase.DatabaseClient
	storage   *supabase.StorageClient
	pipeline  VariantPipeline
	analytics *supabase.AnalyticsRecorder
}

func NewPublishService(
	db *supabase.DatabaseClient,
	storage *supabase.StorageClient,
	pipeline VariantPipeline,
	analytics *supabase.AnalyticsRecorder,
) *PublishService {
	return &PublishService{
		db:        db,
		storage:   storage,
		pipeline:  pipeline,
		analytics: analytics,
	}
}

// PublishInput carries everything the publish operation needs. Images are
// data-URI-encoded page rasters, one per page.
type PublishInput struct {
	Title            string
	Description      string
	CategoryID       string
	UserID           uuid.UUID
	UserEmail        string
	OriginalDesignID *uuid.UUID
	SearchKeywords   string
	Tags             []string
	Images           []string
	Language         string
	Region           string
}

// PublishedDesignWithImages pairs a published design with its variant rows.
type PublishedDesignWithImages struct {
	models.PublishedDesign
	Images []models.DesignImage
}

// PublishDesign runs the full publish sequence. Any primary-path failure
// aborts the remaining steps and propagates; the inserted published-design
// row is deleted (best effort) if image processing fails after the insert.
// Secondary effects (draft status update, analytics) are logged and
// swallowed on failure.
func (s *PublishService) PublishDesign(ctx context.Context, in PublishInput) (*models.PublishedDesign, error) {
	if len(in.Images) == 0 {
		return nil, fmt.Errorf("at least one page image is required")
	}

	author, err := s.EnsureAuthor(in.UserID, in.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	slug, err := s.UniqueSlug(in.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	pd := &models.PublishedDesign{
		ID:         uuid.New(),
		Title:      in.Title,
		CategoryID: in.CategoryID,
		AuthorID:   author.ID,
		PageCount:  len(in.Images),
		Price:      0,
		IsFree:     true,
		License:    models.LicenseFree,
		Language:   in.Language,
		Region:     in.Region,
		Slug:       slug,
		Tags:       pq.StringArray(in.Tags),
		Status:     models.PublishedStatusPublished,
		Version:    initialVersion,
	}
	if in.Description != "" {
		pd.Description = sql.NullString{String: in.Description, Valid: true}
	}
	if in.SearchKeywords != "" {
		pd.SearchKeywords = sql.NullString{String: in.SearchKeywords, Valid: true}
	}
	if in.OriginalDesignID != nil {
		pd.DesignID = uuid.NullUUID{UUID: *in.OriginalDesignID, Valid: true}
	}
	if pd.Language == "" {
		pd.Language = defaultLanguage
	}
	if pd.Region == "" {
		pd.Region = defaultRegion
	}

	err = s.db.CreatePublishedDesign(pd)
	if supabase.IsUniqueViolation(err) {
		// A concurrent publish claimed the slug between check and insert.
		// Regenerate against the updated slug set and retry once.
		slug, slugErr := s.UniqueSlug(in.Title)
		if slugErr != nil {
			return nil, fmt.Errorf("failed to regenerate slug: %w", slugErr)
		}
		pd.Slug = slug
		err = s.db.CreatePublishedDesign(pd)
	}
	if err != nil {
		return nil, err
	}

	if err := s.processImages(ctx, pd, in.Images, in.Title); err != nil {
		// Compensating deletion. Not transactional: a crash before this
		// point leaves an orphaned row, and already-uploaded blobs are
		// only cleaned up best-effort.
		if delErr := s.db.DeletePublishedDesign(pd.ID); delErr != nil {
			log.Printf("publish rollback: failed to delete design %s: %v", pd.ID, delErr)
		}
		if s.storage != nil {
			go func() {
				if purgeErr := s.storage.PurgeDesignFiles(pd.ID); purgeErr != nil {
					log.Printf("publish rollback: failed to purge storage for %s: %v", pd.ID, purgeErr)
				}
			}()
		}
		return nil, fmt.Errorf("image processing failed: %w", err)
	}

	if in.OriginalDesignID != nil {
		if err := s.db.UpdateDesignStatus(*in.OriginalDesignID, models.DesignStatusPublished); err != nil {
			log.Printf("publish: failed to mark draft %s published: %v", *in.OriginalDesignID, err)
		}
	}

	s.analytics.Record(supabase.EventPublish, pd.ID, in.UserID.String(),
		supabase.PublishEventPayload(pd.ID, pd.Slug, pd.PageCount))

	return pd, nil
}

func (s *PublishService) processImages(ctx context.Context, pd *models.PublishedDesign, dataURIs []string, title string) error {
	pages, err := s.pipeline.DecodePages(dataURIs)
	if err != nil {
		return err
	}

	results, err := s.pipeline.ProcessPages(ctx, pd.ID, pages)
	if err != nil {
		return err
	}

	previews, err := s.pipeline.ProcessPreviews(ctx, pd.ID, pages, title)
	if err != nil {
		return err
	}

	return s.db.CreateDesignImages(BuildImageRows(pd.ID, results, previews))
}

// BuildImageRows assembles the design_images rows for a publish: one page
// row and one thumbnail row per page, plus the three preview rows.
func BuildImageRows(designID uuid.UUID, pages []images.PageResult, previews *images.PreviewSet) []*models.DesignImage {
	var totalPageBytes int64
	for _, page := range pages {
		totalPageBytes += page.WebpSize + page.PngSize
	}
	thumbSize := totalPageBytes * thumbnailSizePct / 100
	previewSize := totalPageBytes * previewSizePct / 100

	rows := make([]*models.DesignImage, 0, 2*len(pages)+3)
	for _, page := range pages {
		rows = append(rows, &models.DesignImage{
			ID:           uuid.New(),
			DesignID:     designID,
			PageNumber:   page.PageNumber,
			ImageType:    models.ImageTypePage,
			StoragePath:  page.WebpPath,
			PublicURL:    page.PngURL,
			WebpURL:      sql.NullString{String: page.WebpURL, Valid: true},
			ThumbnailURL: sql.NullString{String: page.ThumbURL, Valid: true},
			FileSize:     sql.NullInt64{Int64: page.WebpSize, Valid: true},
			Width:        page.Width,
			Height:       page.Height,
		})
		rows = append(rows, &models.DesignImage{
			ID:          uuid.New(),
			DesignID:    designID,
			PageNumber:  page.PageNumber,
			ImageType:   models.ImageTypeThumbnail,
			StoragePath: page.ThumbPath,
			PublicURL:   page.ThumbURL,
			FileSize:    sql.NullInt64{Int64: thumbSize, Valid: true},
			Width:       200,
			Height:      150,
		})
	}

	for _, preview := range []images.Preview{previews.Cover, previews.Grid, previews.Carousel} {
		rows = append(rows, &models.DesignImage{
			ID:          uuid.New(),
			DesignID:    designID,
			PageNumber:  0,
			ImageType:   preview.Kind,
			StoragePath: preview.Path,
			PublicURL:   preview.URL,
			FileSize:    sql.NullInt64{Int64: previewSize, Valid: true},
			Width:       preview.Width,
			Height:      preview.Height,
		})
	}

	return rows
}

// EnsureAuthor resolves (or lazily creates) the author record for a user.
// Lookup by user id first; an email match backfills the user id onto the
// existing record. Idempotent: repeated calls return the same author.
func (s *PublishService) EnsureAuthor(userID uuid.UUID, email string) (*models.Author, error) {
	author, err := s.db.GetAuthorByUserID(userID)
	if err != nil {
		return nil, err
	}
	if author != nil {
		return author, nil
	}

	if email != "" {
		byEmail, err := s.db.GetAuthorByEmail(email)
		if err != nil {
			return nil, err
		}
		if byEmail != nil {
			if err := s.db.SetAuthorUserID(byEmail.ID, userID); err != nil {
				return nil, err
			}
			byEmail.UserID = uuid.NullUUID{UUID: userID, Valid: true}
			return byEmail, nil
		}
	}

	author = &models.Author{
		ID:         uuid.New(),
		UserID:     uuid.NullUUID{UUID: userID, Valid: true},
		Name:       defaultAuthorName(email),
		IsVerified: false,
	}
	if email != "" {
		author.Email = sql.NullString{String: email, Valid: true}
	}

	err = s.db.CreateAuthor(author)
	if supabase.IsUniqueViolation(err) {
		// Lost a concurrent first-publish race; the winner's row exists now.
		existing, getErr := s.db.GetAuthorByUserID(userID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, err
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	return author, nil
}

func defaultAuthorName(email string) string {
	if email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
	}
	return "SmartWish Creator"
}

// UniqueSlug derives the base slug from a title and probes numeric
// suffixes until a free slug is found. Probing is bounded; past the bound
// the caller gets ErrSlugSpaceExhausted rather than an unbounded loop.
func (s *PublishService) UniqueSlug(title string) (string, error) {
	base := Slugify(title)

	exists, err := s.db.SlugExists(base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		exists, err := s.db.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrSlugSpaceExhausted
}

// UnpublishDesign archives a published design after verifying that the
// requesting user's author identity owns it. Images stay in storage.
func (s *PublishService) UnpublishDesign(designID, userID uuid.UUID) (*models.PublishedDesign, error) {
	pd, err := s.db.GetPublishedDesign(designID)
	if err != nil {
		return nil, err
	}
	if pd == nil {
		return nil, ErrNotFound
	}

	author, err := s.db.GetAuthorByUserID(userID)
	if err != nil {
		return nil, err
	}
	if author == nil || author.ID != pd.AuthorID {
		return nil, ErrNotAuthorized
	}

	if err := s.db.UpdatePublishedDesignStatus(pd.ID, models.PublishedStatusArchived); err != nil {
		return nil, err
	}
	pd.Status = models.PublishedStatusArchived

	s.analytics.Record(supabase.EventUnpublish, pd.ID, userID.String(),
		supabase.UnpublishEventPayload(pd.ID))

	return pd, nil
}

// ListPublishedDesigns returns marketplace listings with their image rows.
// Images are fetched per design, ordered by page number.
func (s *PublishService) ListPublishedDesigns(filter supabase.ListPublishedFilter) ([]PublishedDesignWithImages, error) {
	designs, err := s.db.ListPublishedDesigns(filter)
	if err != nil {
		return nil, err
	}

	results := make([]PublishedDesignWithImages, 0, len(designs))
	for _, pd := range designs {
		imgs, err := s.db.GetDesignImages(pd.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, PublishedDesignWithImages{
			PublishedDesign: pd,
			Images:          imgs,
		})
	}

	return results, nil
}

// GetPublishedDesign fetches one design by id or slug, bumps its view
// counter (best effort) and records a view event.
func (s *PublishService) GetPublishedDesign(idOrSlug string, userID string) (*PublishedDesignWithImages, error) {
	var pd *models.PublishedDesign
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		pd, err = s.db.GetPublishedDesign(id)
	} else {
		pd, err = s.db.GetPublishedDesignBySlug(idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if pd == nil {
		return nil, ErrNotFound
	}

	if err := s.db.IncrementViews(pd.ID); err != nil {
		log.Printf("failed to increment views for %s: %v", pd.ID, err)
	} else {
		pd.Views++
	}

	imgs, err := s.db.GetDesignImages(pd.ID)
	if err != nil {
		return nil, err
	}

	s.analytics.Record(supabase.EventView, pd.ID, userID,
		supabase.ViewEventPayload(pd.ID, pd.Slug))

	return &PublishedDesignWithImages{
		PublishedDesign: *pd,
		Images:          imgs,
	}, nil
}

// RecordDownload bumps the download counter and records a download event.
func (s *PublishService) RecordDownload(designID uuid.UUID, userID string) (*models.PublishedDesign, error) {
	pd, err := s.db.GetPublishedDesign(designID)
	if err != nil {
		return nil, err
	}
	if pd == nil {
		return nil, ErrNotFound
	}

	if err := s.db.IncrementDownloads(pd.ID); err != nil {
		return nil, err
	}
	pd.Downloads++
	pd.Popularity++

	s.analytics.Record(supabase.EventDownload, pd.ID, userID,
		supabase.DownloadEventPayload(pd.ID, pd.Downloads))

	return pd, nil
}
