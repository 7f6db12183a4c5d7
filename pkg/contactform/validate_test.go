package contactform_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/models"
)

func validState() models.FormState {
	return models.FormState{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		Phone:        "+44 20 7946 0000",
		ContactType:  "customer",
		Message:      "Hello there",
		AgreeToTerms: true,
	}
}

func TestValidateAcceptsCompleteState(t *testing.T) {
	assert.Empty(t, contactform.Validate(validState()))

	withOptional := validState()
	withOptional.Company = "Analytical Engines"
	withOptional.SubscribeNewsletter = true
	assert.Empty(t, contactform.Validate(withOptional))
}

func TestValidateEachMissingFieldIsReportedAlone(t *testing.T) {
	cases := []struct {
		field models.Field
		clear func(*models.FormState)
		want  string
	}{
		{models.FieldFirstName, func(s *models.FormState) { s.FirstName = "   " }, "First name is required"},
		{models.FieldLastName, func(s *models.FormState) { s.LastName = "" }, "Last name is required"},
		{models.FieldEmail, func(s *models.FormState) { s.Email = "" }, "Email is required"},
		{models.FieldPhone, func(s *models.FormState) { s.Phone = "\t" }, "Phone is required"},
		{models.FieldContactType, func(s *models.FormState) { s.ContactType = "" }, "Please select a contact type"},
		{models.FieldMessage, func(s *models.FormState) { s.Message = " \n " }, "Message is required"},
		{models.FieldAgreeToTerms, func(s *models.FormState) { s.AgreeToTerms = false }, "You must agree to the terms"},
	}

	for _, tc := range cases {
		t.Run(string(tc.field), func(t *testing.T) {
			state := validState()
			tc.clear(&state)

			got := contactform.Validate(state)
			want := models.FieldErrors{tc.field: tc.want}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateErrorsAreIndependent(t *testing.T) {
	state := validState()
	state.FirstName = ""
	state.Message = ""

	got := contactform.Validate(state)
	want := models.FieldErrors{
		models.FieldFirstName: "First name is required",
		models.FieldMessage:   "Message is required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateEmptyStateReportsEveryRequiredField(t *testing.T) {
	got := contactform.Validate(models.FormState{})
	assert.Len(t, got, 7)
	assert.False(t, got.Has(models.FieldCompany))
	assert.False(t, got.Has(models.FieldSubscribeNewsletter))
	assert.False(t, got.Has(models.FieldOtherContactType))
}

func TestValidateEmail(t *testing.T) {
	cases := map[string]string{
		"a@b.com":   "",
		"x.y@z.co":  "",
		"abc":       "Invalid email format",
		"a@b":       "Invalid email format",
		"a b@c.com": "Invalid email format",
		" a@b.com":  "Invalid email format",
		"":          "Email is required",
		"   ":       "Email is required",
	}

	for email, want := range cases {
		t.Run(email, func(t *testing.T) {
			state := validState()
			state.Email = email
			assert.Equal(t, want, contactform.Validate(state).Get(models.FieldEmail))
		})
	}
}

func TestValidateOtherContactType(t *testing.T) {
	state := validState()
	state.ContactType = models.OtherContactType

	got := contactform.Validate(state)
	assert.Equal(t, models.FieldErrors{models.FieldOtherContactType: "Please select a specific type"}, got)

	state.OtherContactType = "press"
	assert.Empty(t, contactform.Validate(state))

	for _, contactType := range []string{"customer", "partner", "Other"} {
		state := validState()
		state.ContactType = contactType
		assert.False(t, contactform.Validate(state).Has(models.FieldOtherContactType), contactType)
	}
}
