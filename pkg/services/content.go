package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/digitalocean/contact-page/pkg/clients/contentful"
	"github.com/digitalocean/contact-page/pkg/models"
	"github.com/digitalocean/contact-page/pkg/query"
)

// ErrNotFound is returned when the CMS has no entry for the query.
var ErrNotFound = errors.New("content not found")

// Query kinds used in cache keys.
const (
	KindContactForm = "contactForm"
	KindHelpSection = "helpSection"
	KindContactPage = "contactPage"
)

// ContentService answers content queries through a cache keyed by the
// query variables.
type ContentService struct {
	client   contentful.Client
	forms    *query.Cache[*models.ContactForm]
	sections *query.Cache[*models.HelpSection]
	pages    *query.Cache[*models.ContactPage]
	logger   *zap.Logger
}

// NewContentService wraps client with one cache per content kind.
func NewContentService(client contentful.Client, cfg query.Config, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		client:   client,
		forms:    query.New[*models.ContactForm](cfg),
		sections: query.New[*models.HelpSection](cfg),
		pages:    query.New[*models.ContactPage](cfg),
		logger:   logger,
	}
}

// FormKey returns the cache key of a contact form query.
func FormKey(vars contentful.Vars) query.Key {
	return query.Key{Kind: KindContactForm, ID: vars.ID, Locale: vars.Locale, Preview: vars.Preview}
}

// HelpSectionKey returns the cache key of a help section query.
func HelpSectionKey(vars contentful.Vars) query.Key {
	return query.Key{Kind: KindHelpSection, ID: vars.ID, Locale: vars.Locale, Preview: vars.Preview}
}

// PageKey returns the cache key of a contact page query.
func PageKey(vars contentful.SlugVars) query.Key {
	return query.Key{Kind: KindContactPage, ID: vars.Slug, Locale: vars.Locale, Preview: vars.Preview}
}

// ContactForm returns the contact form entry or ErrNotFound.
func (s *ContentService) ContactForm(ctx context.Context, vars contentful.Vars) (*models.ContactForm, error) {
	form, err := s.forms.Get(ctx, FormKey(vars), func(ctx context.Context) (*models.ContactForm, error) {
		return s.client.ContactForm(ctx, vars)
	})
	return found(form, err, KindContactForm, vars.ID)
}

// HelpSection returns the help section entry or ErrNotFound.
func (s *ContentService) HelpSection(ctx context.Context, vars contentful.Vars) (*models.HelpSection, error) {
	section, err := s.sections.Get(ctx, HelpSectionKey(vars), func(ctx context.Context) (*models.HelpSection, error) {
		return s.client.HelpSection(ctx, vars)
	})
	return found(section, err, KindHelpSection, vars.ID)
}

// ContactPage returns the contact page with the given slug or ErrNotFound.
func (s *ContentService) ContactPage(ctx context.Context, vars contentful.SlugVars) (*models.ContactPage, error) {
	page, err := s.pages.Get(ctx, PageKey(vars), func(ctx context.Context) (*models.ContactPage, error) {
		return s.client.ContactPage(ctx, vars)
	})
	return found(page, err, KindContactPage, vars.Slug)
}

func found[T any](v *T, err error, kind, id string) (*T, error) {
	if err != nil {
		return nil, fmt.Errorf("error fetching %s %q: %w", kind, id, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return v, nil
}

// State reports the fetch state of a key built with FormKey,
// HelpSectionKey or PageKey.
func (s *ContentService) State(key query.Key) query.State {
	switch key.Kind {
	case KindContactForm:
		return s.forms.State(key)
	case KindHelpSection:
		return s.sections.State(key)
	case KindContactPage:
		return s.pages.State(key)
	}
	return query.StateIdle
}

// InvalidateAll drops every cached entry, typically after a CMS publish.
func (s *ContentService) InvalidateAll() {
	s.forms.InvalidateAll()
	s.sections.InvalidateAll()
	s.pages.InvalidateAll()
	s.logger.Info("Content cache invalidated")
}

// Warm fetches the given page slugs concurrently. Missing pages are
// logged and skipped; other failures are returned.
func (s *ContentService) Warm(ctx context.Context, slugs []string, locale string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, slug := range slugs {
		slug := slug
		g.Go(func() error {
			_, err := s.ContactPage(ctx, contentful.SlugVars{Slug: slug, Locale: locale})
			if errors.Is(err, ErrNotFound) {
				s.logger.Warn("Warm-up page not found", zap.String("slug", slug))
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
