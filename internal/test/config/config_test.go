package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartwish-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "publishable-key")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
	t.Setenv("SUPABASE_STORAGE_BUCKET", "")
	t.Setenv("PORT", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("BASE_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "smartwish-images", cfg.SupabaseStorageBucket)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "publishable-key")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
	t.Setenv("SUPABASE_STORAGE_BUCKET", "other-bucket")
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "other-bucket", cfg.SupabaseStorageBucket)
	assert.Equal(t, "9000", cfg.Port)
}

func TestValidate_MissingRequired(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"no url", config.Config{SupabasePublishableKey: "k", SupabaseJWTSecret: "s"}, "SUPABASE_URL"},
		{"no key", config.Config{SupabaseURL: "u", SupabaseJWTSecret: "s"}, "SUPABASE_PUBLISHABLE_KEY"},
		{"no secret", config.Config{SupabaseURL: "u", SupabasePublishableKey: "k"}, "SUPABASE_JWT_SECRET"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
