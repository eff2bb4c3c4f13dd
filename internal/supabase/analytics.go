package supabase

import (
	"log"

	"github.com/google/uuid"
	"smartwish-backend/internal/models"
)

// Event types recorded against published designs.
const (
	EventPublish   = "publish"
	EventUnpublish = "unpublish"
	EventView      = "view"
	EventDownload  = "download"
)

// AnalyticsRecorder writes usage events to the analytics_events table via
// PostgREST, falling back to the direct database connection. Recording is
// fire-and-forget: every failure is logged and swallowed so events can
// never block or fail the operation that produced them.
type AnalyticsRecorder struct {
	client *Client
	db     *DatabaseClient
}

func NewAnalyticsRecorder(client *Client, db *DatabaseClient) *AnalyticsRecorder {
	return &AnalyticsRecorder{
		client: client,
		db:     db,
	}
}

// Record dispatches an event asynchronously. Safe to call with a nil
// receiver so callers never need to guard.
func (a *AnalyticsRecorder) Record(eventType string, designID uuid.UUID, userID string, payload map[string]interface{}) {
	if a == nil {
		return
	}

	event := &models.AnalyticsEvent{
		EventType: eventType,
		UserID:    userID,
		Payload:   payload,
	}
	if designID != uuid.Nil {
		event.DesignID = designID.String()
	}

	go a.record(event)
}

func (a *AnalyticsRecorder) record(event *models.AnalyticsEvent) {
	if a.client != nil {
		_, _, err := a.client.Supabase.From("analytics_events").
			Insert(event, false, "", "", "").
			Execute()
		if err == nil {
			return
		}
		log.Printf("analytics: postgrest insert failed for %s event: %v", event.EventType, err)
	}

	if a.db != nil {
		if err := a.db.InsertAnalyticsEvent(event); err != nil {
			log.Printf("analytics: fallback insert failed for %s event: %v", event.EventType, err)
		}
	}
}

// Event payloads
func PublishEventPayload(designID uuid.UUID, slug string, pageCount int) map[string]interface{} {
	return map[string]interface{}{
		"design_id":  designID.String(),
		"slug":       slug,
		"page_count": pageCount,
	}
}

func UnpublishEventPayload(designID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"design_id": designID.String(),
		"status":    models.PublishedStatusArchived,
	}
}

func ViewEventPayload(designID uuid.UUID, slug string) map[string]interface{} {
	return map[string]interface{}{
		"design_id": designID.String(),
		"slug":      slug,
	}
}

func DownloadEventPayload(designID uuid.UUID, downloads int) map[string]interface{} {
	return map[string]interface{}{
		"design_id": designID.String(),
		"downloads": downloads,
	}
}
