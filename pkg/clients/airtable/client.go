package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Client defines the interface for interacting with Airtable API
type Client interface {
	RecordExists(ctx context.Context, table, field, value string) (bool, error)
	CreateRecord(ctx context.Context, table string, fields map[string]interface{}) error
}

// Config holds the Airtable credentials
type Config struct {
	APIKey string
	BaseID string
	// BaseURL overrides the API root, mostly for tests.
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type clientImpl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Airtable client
func NewClient(cfg Config) Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &clientImpl{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(base, "/") + "/" + url.PathEscape(cfg.BaseID),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *clientImpl) RecordExists(ctx context.Context, table, field, value string) (bool, error) {
	formula := fmt.Sprintf("{%s}=%q", field, value)
	endpoint := fmt.Sprintf("%s/%s?maxRecords=1&filterByFormula=%s",
		c.baseURL, url.PathEscape(table), url.QueryEscape(formula))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)

	body, err := c.send(req)
	if err != nil {
		return false, err
	}

	var response struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("error parsing response: %w", err)
	}

	exists := len(response.Records) > 0
	c.logger.Debug("Airtable record check",
		zap.String("table", table),
		zap.String("field", field),
		zap.Bool("exists", exists))
	return exists, nil
}

func (c *clientImpl) CreateRecord(ctx context.Context, table string, fields map[string]interface{}) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(table))

	payload := map[string]interface{}{
		"records": []map[string]interface{}{
			{"fields": fields},
		},
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	if _, err := c.send(req); err != nil {
		return err
	}

	c.logger.Info("Created Airtable record", zap.String("table", table))
	return nil
}

func (c *clientImpl) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling Airtable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from Airtable API (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
