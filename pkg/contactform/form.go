// Package contactform owns the contact form: validation rules, the
// submission lifecycle of one form instance and the view model rendered
// from CMS content.
package contactform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/models"
)

var (
	ErrInvalid      = errors.New("contact form has validation errors")
	ErrBusy         = errors.New("contact form is not idle")
	ErrClosed       = errors.New("contact form is closed")
	ErrUnknownField = errors.New("unknown contact form field")
)

// DefaultSuccessWindow is how long the success message stays up before the
// form is cleared.
const DefaultSuccessWindow = 5 * time.Second

// SubmitFailedMessage is shown above the form when the submitter fails.
const SubmitFailedMessage = "We could not send your message. Please try again."

// Submitter delivers a validated form somewhere.
type Submitter interface {
	Submit(ctx context.Context, state models.FormState) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, state models.FormState) error

func (f SubmitterFunc) Submit(ctx context.Context, state models.FormState) error {
	return f(ctx, state)
}

// Option configures a Form.
type Option func(*Form)

// WithSuccessWindow overrides DefaultSuccessWindow.
func WithSuccessWindow(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.successWindow = d
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Snapshot is a copy of a form's state at one point in time.
type Snapshot struct {
	State       models.FormState
	Errors      models.FieldErrors
	Status      models.SubmissionStatus
	SubmitError string
}

// Form is one contact form instance. It is safe for concurrent use.
type Form struct {
	mu            sync.Mutex
	state         models.FormState
	errors        models.FieldErrors
	status        models.SubmissionStatus
	submitErr     string
	submitter     Submitter
	successWindow time.Duration
	logger        *zap.Logger

	resetTimer *time.Timer
	cancel     context.CancelFunc
	closed     bool
}

// New creates an idle form with empty values.
func New(submitter Submitter, opts ...Option) *Form {
	f := &Form{
		submitter:     submitter,
		successWindow: DefaultSuccessWindow,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		State:       f.state,
		Errors:      f.errors.Clone(),
		Status:      f.status,
		SubmitError: f.submitErr,
	}
}

// Set updates one field from its textual form value and clears that
// field's error. The field is not validated again until the next Submit.
func (f *Form) Set(field models.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := setField(&f.state, field, value); err != nil {
		return err
	}
	delete(f.errors, field)
	f.submitErr = ""
	return nil
}

// Apply sets every field whose value differs from next. It is how a full
// form post is folded into the instance.
func (f *Form) Apply(next models.FormState) error {
	current := f.Snapshot().State
	for _, field := range models.Fields {
		value := fieldValue(next, field)
		if value == fieldValue(current, field) {
			continue
		}
		if err := f.Set(field, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit validates the form and, when valid, hands it to the submitter.
// Invalid forms keep their values, record the errors and return
// ErrInvalid without calling the submitter. A successful submission shows
// the success state for the success window and then clears the form.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.status != models.StatusIdle {
		f.mu.Unlock()
		return ErrBusy
	}

	f.submitErr = ""
	errs := Validate(f.state)
	if len(errs) > 0 {
		f.errors = errs
		f.mu.Unlock()
		f.logger.Debug("Contact form rejected", zap.Int("errors", len(errs)))
		return ErrInvalid
	}

	f.errors = nil
	f.status = models.StatusSubmitting
	state := f.state
	submitCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	err := f.submitter.Submit(submitCtx, state)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancel = nil

	if f.closed {
		return ErrClosed
	}
	if err != nil {
		f.status = models.StatusIdle
		f.submitErr = SubmitFailedMessage
		f.logger.Warn("Contact form submission failed", zap.Error(err))
		return fmt.Errorf("error submitting contact form: %w", err)
	}

	f.status = models.StatusSuccess
	f.resetTimer = time.AfterFunc(f.successWindow, f.clearAfterSuccess)
	f.logger.Debug("Contact form submitted", zap.Duration("success_window", f.successWindow))
	return nil
}

func (f *Form) clearAfterSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.status != models.StatusSuccess {
		return
	}
	f.state = models.FormState{}
	f.errors = nil
	f.submitErr = ""
	f.status = models.StatusIdle
	f.resetTimer = nil
}

// Close stops the pending success reset and cancels an in-flight
// submission. A closed form no longer changes.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	if f.cancel != nil {
		f.cancel()
	}
}

func setField(state *models.FormState, field models.Field, value string) error {
	switch field {
	case models.FieldFirstName:
		state.FirstName = value
	case models.FieldLastName:
		state.LastName = value
	case models.FieldEmail:
		state.Email = value
	case models.FieldPhone:
		state.Phone = value
	case models.FieldCompany:
		state.Company = value
	case models.FieldContactType:
		state.ContactType = value
	case models.FieldOtherContactType:
		state.OtherContactType = value
	case models.FieldMessage:
		state.Message = value
	case models.FieldAgreeToTerms:
		b, err := parseCheckbox(value)
		if err != nil {
			return err
		}
		state.AgreeToTerms = b
	case models.FieldSubscribeNewsletter:
		b, err := parseCheckbox(value)
		if err != nil {
			return err
		}
		state.SubscribeNewsletter = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func fieldValue(state models.FormState, field models.Field) string {
	switch field {
	case models.FieldFirstName:
		return state.FirstName
	case models.FieldLastName:
		return state.LastName
	case models.FieldEmail:
		return state.Email
	case models.FieldPhone:
		return state.Phone
	case models.FieldCompany:
		return state.Company
	case models.FieldContactType:
		return state.ContactType
	case models.FieldOtherContactType:
		return state.OtherContactType
	case models.FieldMessage:
		return state.Message
	case models.FieldAgreeToTerms:
		return strconv.FormatBool(state.AgreeToTerms)
	case models.FieldSubscribeNewsletter:
		return strconv.FormatBool(state.SubscribeNewsletter)
	}
	return ""
}

func parseCheckbox(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "off":
		return false, nil
	case "on":
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid checkbox value %q: %w", value, err)
	}
	return b, nil
}
