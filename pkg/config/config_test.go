package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "CONTENTFUL_SPACE_ID", "CONTENTFUL_ENVIRONMENT", "CONTENTFUL_DELIVERY_TOKEN",
		"CACHE_TTL", "FETCH_TIMEOUT", "SUBMIT_DELAY", "SUCCESS_WINDOW", "SESSION_IDLE_TTL",
		"AIRTABLE_TABLE", "ALLOWED_ORIGINS", "WARM_SLUGS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "master", cfg.ContentfulEnvironment)
	assert.Equal(t, "Contact Requests", cfg.AirtableTable)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Second, cfg.SubmitDelay)
	assert.Equal(t, 5*time.Second, cfg.SuccessWindow)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.False(t, cfg.UsesContentful())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SUCCESS_WINDOW", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WARM_SLUGS", "contact")
	t.Setenv("CONTENTFUL_SPACE_ID", "space")
	t.Setenv("CONTENTFUL_DELIVERY_TOKEN", "token")
	t.Setenv("PREVIEW_SECRET", "draft")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.SuccessWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"contact"}, cfg.WarmSlugs)
	assert.Equal(t, "draft", cfg.PreviewSecret)
	assert.True(t, cfg.UsesContentful())
}

func TestLoadConfigRejectsBadDurations(t *testing.T) {
	t.Setenv("CACHE_TTL", "five minutes")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "CACHE_TTL")

	t.Setenv("CACHE_TTL", "-1s")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "negative")
}
