package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/clients/airtable"
	"github.com/digitalocean/contact-page/pkg/config"
	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/models"
	"github.com/digitalocean/contact-page/pkg/utils"
)

// DelaySubmitter stands in for a real submission backend: it waits for
// Delay and logs the request.
type DelaySubmitter struct {
	Delay  time.Duration
	Logger *zap.Logger
}

func (s *DelaySubmitter) Submit(ctx context.Context, state models.FormState) error {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	logger(s.Logger).Info("Contact form submitted",
		zap.String("email", utils.RedactEmail(state.Email)),
		zap.String("contact_type", state.ContactType),
		zap.String("other_contact_type", state.OtherContactType),
		zap.Bool("newsletter", state.SubscribeNewsletter))
	return nil
}

// AirtableSubmitter stores each contact request as an Airtable record.
// A request whose email and message match an existing record is not
// stored twice.
type AirtableSubmitter struct {
	client airtable.Client
	table  string
	logger *zap.Logger
}

// NewAirtableSubmitter creates a submitter writing to table.
func NewAirtableSubmitter(client airtable.Client, table string, logger *zap.Logger) *AirtableSubmitter {
	return &AirtableSubmitter{
		client: client,
		table:  table,
		logger: logger,
	}
}

func (s *AirtableSubmitter) Submit(ctx context.Context, state models.FormState) error {
	hash := utils.SubmissionHash(state.Email, state.Message)
	log := logger(s.logger).With(zap.String("email", utils.RedactEmail(state.Email)))

	exists, err := s.client.RecordExists(ctx, s.table, "hash", hash)
	if err != nil {
		return fmt.Errorf("error checking for duplicate request: %w", err)
	}
	if exists {
		log.Info("Skipping duplicate contact request")
		return nil
	}

	record := map[string]interface{}{
		"First Name":         state.FirstName,
		"Last Name":          state.LastName,
		"Email":              state.Email,
		"Phone":              state.Phone,
		"Company":            state.Company,
		"Contact Type":       state.ContactType,
		"Other Contact Type": state.OtherContactType,
		"Message":            state.Message,
		"Newsletter":         state.SubscribeNewsletter,
		"hash":               hash,
	}
	if err := s.client.CreateRecord(ctx, s.table, record); err != nil {
		return fmt.Errorf("error storing contact request: %w", err)
	}

	log.Info("Stored contact request", zap.String("table", s.table))
	return nil
}

// NewSubmitter picks the submission backend from configuration: Airtable
// when credentials are present, the delay stand-in otherwise.
func NewSubmitter(cfg *config.Config, logger *zap.Logger) contactform.Submitter {
	if cfg.AirtableAPIKey != "" && cfg.AirtableBaseID != "" {
		client := airtable.NewClient(airtable.Config{
			APIKey: cfg.AirtableAPIKey,
			BaseID: cfg.AirtableBaseID,
			Logger: logger,
		})
		return NewAirtableSubmitter(client, cfg.AirtableTable, logger)
	}
	return &DelaySubmitter{Delay: cfg.SubmitDelay, Logger: logger}
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
