package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/models"
)

const defaultEndpoint = "https://graphql.contentful.com/content/v1/spaces"

// Vars are the variables of an entry looked up by id
type Vars struct {
	ID      string
	Locale  string
	Preview bool
}

// SlugVars are the variables of an entry looked up by slug
type SlugVars struct {
	Slug    string
	Locale  string
	Preview bool
}

// Client defines the content queries the site needs. Entries that do not
// exist come back as nil with a nil error.
type Client interface {
	ContactForm(ctx context.Context, vars Vars) (*models.ContactForm, error)
	HelpSection(ctx context.Context, vars Vars) (*models.HelpSection, error)
	ContactPage(ctx context.Context, vars SlugVars) (*models.ContactPage, error)
}

// Config holds the GraphQL API settings
type Config struct {
	SpaceID       string
	Environment   string
	DeliveryToken string
	PreviewToken  string
	// Endpoint overrides the API base URL, mostly for tests.
	Endpoint   string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type clientImpl struct {
	url           string
	deliveryToken string
	previewToken  string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient creates a new Contentful GraphQL client
func NewClient(cfg Config) Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	env := cfg.Environment
	if env == "" {
		env = "master"
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
		url:           fmt.Sprintf("%s/%s/environments/%s", strings.TrimRight(endpoint, "/"), cfg.SpaceID, env),
		deliveryToken: cfg.DeliveryToken,
		previewToken:  cfg.PreviewToken,
		httpClient:    httpClient,
		logger:        logger,
	}
}

func (c *clientImpl) ContactForm(ctx context.Context, vars Vars) (*models.ContactForm, error) {
	var data struct {
		ComponentContactForm *models.ContactForm `json:"componentContactForm"`
	}
	if err := c.do(ctx, contactFormQuery, idVariables(vars), vars.Preview, &data); err != nil {
		return nil, err
	}
	return data.ComponentContactForm, nil
}

func (c *clientImpl) HelpSection(ctx context.Context, vars Vars) (*models.HelpSection, error) {
	var data struct {
		ComponentHelpSection *helpSectionFields `json:"componentHelpSection"`
	}
	if err := c.do(ctx, helpSectionQuery, idVariables(vars), vars.Preview, &data); err != nil {
		return nil, err
	}
	return data.ComponentHelpSection.toModel(), nil
}

func (c *clientImpl) ContactPage(ctx context.Context, vars SlugVars) (*models.ContactPage, error) {
	var data struct {
		Collection *struct {
			Items []*contactPageFields `json:"items"`
		} `json:"componentContactPageCollection"`
	}
	variables := map[string]interface{}{
		"slug":    vars.Slug,
		"preview": vars.Preview,
	}
	if vars.Locale != "" {
		variables["locale"] = vars.Locale
	}
	if err := c.do(ctx, contactPageQuery, variables, vars.Preview, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil || len(data.Collection.Items) == 0 {
		return nil, nil
	}
	return data.Collection.Items[0].toModel(), nil
}

func idVariables(vars Vars) map[string]interface{} {
	variables := map[string]interface{}{
		"id":      vars.ID,
		"preview": vars.Preview,
	}
	if vars.Locale != "" {
		variables["locale"] = vars.Locale
	}
	return variables
}

func (c *clientImpl) do(ctx context.Context, query string, variables map[string]interface{}, preview bool, out interface{}) error {
	token := c.deliveryToken
	if preview {
		if c.previewToken == "" {
			return fmt.Errorf("preview requested but no preview token is configured")
		}
		token = c.previewToken
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error querying Contentful: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error from Contentful API (%d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	if len(response.Errors) > 0 {
		msgs := make([]string, 0, len(response.Errors))
		for _, e := range response.Errors {
			if !e.missingEntry() {
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return fmt.Errorf("error from Contentful API: %s", strings.Join(msgs, "; "))
		}
		c.logger.Debug("Contentful reported missing entries", zap.Int("errors", len(response.Errors)))
	}
	if len(response.Data) == 0 || string(response.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(response.Data, out); err != nil {
		return fmt.Errorf("error parsing response data: %w", err)
	}

	c.logger.Debug("Contentful query completed", zap.Any("variables", variables))
	return nil
}

// Error codes Contentful uses for entries that do not exist or are not
// published. The affected fields come back as null.
var missingEntryCodes = map[string]bool{
	"NOT_FOUND":                  true,
	"UNRESOLVABLE_LINK":          true,
	"UNRESOLVABLE_RESOURCE_LINK": true,
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Contentful struct {
			Code string `json:"code"`
		} `json:"contentful"`
	} `json:"extensions"`
}

func (e graphQLError) missingEntry() bool {
	return missingEntryCodes[e.Extensions.Contentful.Code]
}
