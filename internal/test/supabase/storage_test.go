package supabase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartwish-backend/internal/supabase"
)

func TestGetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co", "key", "smartwish-images")
	require.NoError(t, err)

	url := client.GetPublicURL("designs/abc/pages/1_page_1_webp.webp")
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/smartwish-images/designs/abc/pages/1_page_1_webp.webp",
		url)
}

func TestNewStorageClient_TrimsTrailingSlash(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co/", "key", "smartwish-images")
	require.NoError(t, err)

	url := client.GetPublicURL("designs/abc/previews/1_cover.jpg")
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/smartwish-images/designs/abc/previews/1_cover.jpg",
		url)
}

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co", "key", "bucket")
	require.NoError(t, err)

	calls := 0
	err = client.RetryWithBackoff(func() error {
		calls++
		return nil
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co", "key", "bucket")
	require.NoError(t, err)

	calls := 0
	err = client.RetryWithBackoff(func() error {
		calls++
		return errors.New("upload failed")
	}, 1)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "failed after 1 retries")
}
