package supabase_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"smartwish-backend/internal/supabase"
)

func TestRecord_NilRecorder(t *testing.T) {
	var recorder *supabase.AnalyticsRecorder

	// Callers pass events unconditionally; a nil recorder must be a no-op.
	assert.NotPanics(t, func() {
		recorder.Record(supabase.EventView, uuid.New(), "", nil)
	})
}

func TestEventPayloads(t *testing.T) {
	id := uuid.New()

	publish := supabase.PublishEventPayload(id, "my-card", 4)
	assert.Equal(t, id.String(), publish["design_id"])
	assert.Equal(t, "my-card", publish["slug"])
	assert.Equal(t, 4, publish["page_count"])

	download := supabase.DownloadEventPayload(id, 21)
	assert.Equal(t, 21, download["downloads"])

	unpublish := supabase.UnpublishEventPayload(id)
	assert.Equal(t, "archived", unpublish["status"])
}
