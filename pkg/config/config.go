package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration values
type Config struct {
	Port    string
	GinMode string

	ContentfulSpaceID       string
	ContentfulEnvironment   string
	ContentfulDeliveryToken string
	ContentfulPreviewToken  string
	ContentfulEndpoint      string
	ContentFixtures         string

	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	SubmitDelay    time.Duration
	SuccessWindow  time.Duration
	SessionIdleTTL time.Duration

	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string

	WebhookSecret  string
	PreviewSecret  string
	AllowedOrigins []string
	WarmSlugs      []string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		ContentfulSpaceID:       os.Getenv("CONTENTFUL_SPACE_ID"),
		ContentfulEnvironment:   getenv("CONTENTFUL_ENVIRONMENT", "master"),
		ContentfulDeliveryToken: os.Getenv("CONTENTFUL_DELIVERY_TOKEN"),
		ContentfulPreviewToken:  os.Getenv("CONTENTFUL_PREVIEW_TOKEN"),
		ContentfulEndpoint:      os.Getenv("CONTENTFUL_ENDPOINT"),
		ContentFixtures:         os.Getenv("CONTENT_FIXTURES"),

		AirtableAPIKey: os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID: os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTable:  getenv("AIRTABLE_TABLE", "Contact Requests"),

		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		PreviewSecret:  os.Getenv("PREVIEW_SECRET"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		WarmSlugs:      splitList(os.Getenv("WARM_SLUGS")),
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"CACHE_TTL", 5 * time.Minute, &cfg.CacheTTL},
		{"FETCH_TIMEOUT", 10 * time.Second, &cfg.FetchTimeout},
		{"SUBMIT_DELAY", time.Second, &cfg.SubmitDelay},
		{"SUCCESS_WINDOW", 5 * time.Second, &cfg.SuccessWindow},
		{"SESSION_IDLE_TTL", 30 * time.Minute, &cfg.SessionIdleTTL},
	}
	for _, d := range durations {
		v, err := durationEnv(d.key, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	return cfg, nil
}

// UsesContentful reports whether the GraphQL API is configured.
func (c *Config) UsesContentful() bool {
	return c.ContentfulSpaceID != "" && c.ContentfulDeliveryToken != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
