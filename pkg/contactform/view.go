package contactform

import (
	"html/template"

	"github.com/digitalocean/contact-page/pkg/models"
	"github.com/digitalocean/contact-page/pkg/optionlist"
	"github.com/digitalocean/contact-page/pkg/render"
)

const defaultSubmitText = "Submit"

// View is the template data for one rendered contact form.
type View struct {
	ID                string
	Action            string
	Headline          string
	Subheadline       string
	ContactOptions    []models.Option
	OtherOptions      []models.Option
	ShowOtherSelector bool
	SubmitText        string
	SuccessMessage    template.HTML
	ShowSuccess       bool
	PrivacyPolicy     template.HTML
	CaptchaEnabled    bool
	Submitting        bool
	Values            models.FormState
	Errors            models.FieldErrors
	SubmitError       string

	// OptionErrors holds option list decode failures. They are logged by
	// the caller and never rendered.
	OptionErrors []error
}

// InputView is the template data of a single text input.
type InputView struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
	Error    string
}

// NewView binds CMS content and the state of a form instance into
// template data. action is the URL the form posts to.
func NewView(content *models.ContactForm, snap Snapshot, action string) *View {
	contact := optionlist.Parse(content.ContactTypeOptions)
	other := optionlist.Parse(content.OtherContactTypes)

	v := &View{
		ID:             content.Sys.ID,
		Action:         action,
		Headline:       content.Headline,
		Subheadline:    content.Subheadline,
		ContactOptions: optionlist.Options(contact),
		OtherOptions:   optionlist.Options(other),
		SubmitText:     content.SubmitButtonText,
		SuccessMessage: render.RichText(content.SuccessMessage),
		PrivacyPolicy:  render.RichText(content.PrivacyPolicyText),
		CaptchaEnabled: content.EnableCaptcha,
		Submitting:     snap.Status == models.StatusSubmitting,
		Values:         snap.State,
		Errors:         snap.Errors,
		SubmitError:    snap.SubmitError,
	}
	if v.SubmitText == "" {
		v.SubmitText = defaultSubmitText
	}
	v.ShowOtherSelector = snap.State.ContactType == models.OtherContactType && len(v.OtherOptions) > 0
	v.ShowSuccess = snap.Status == models.StatusSuccess && v.SuccessMessage != ""

	for _, r := range []optionlist.Result{contact, other} {
		if err := optionlist.Err(r); err != nil {
			v.OptionErrors = append(v.OptionErrors, err)
		}
	}
	return v
}

// Error returns the message for the named field.
func (v *View) Error(name string) string {
	return v.Errors.Get(models.Field(name))
}

// HasError reports whether the named field has a message.
func (v *View) HasError(name string) bool {
	return v.Errors.Has(models.Field(name))
}

// Input builds the data for a text input bound to the named field.
func (v *View) Input(name, label, inputType string, required bool) InputView {
	return InputView{
		Name:     name,
		Label:    label,
		Type:     inputType,
		Value:    fieldValue(v.Values, models.Field(name)),
		Required: required,
		Error:    v.Error(name),
	}
}
