package models

// Field names a single control of the contact form. The value matches the
// JSON and HTML form name of the control.
type Field string

const (
	FieldFirstName           Field = "firstName"
	FieldLastName            Field = "lastName"
	FieldEmail               Field = "email"
	FieldPhone               Field = "phone"
	FieldCompany             Field = "company"
	FieldContactType         Field = "contactType"
	FieldOtherContactType    Field = "otherContactType"
	FieldMessage             Field = "message"
	FieldAgreeToTerms        Field = "agreeToTerms"
	FieldSubscribeNewsletter Field = "subscribeNewsletter"
)

// OtherContactType is the contact type value that requires a more specific
// choice from the "other" option list.
const OtherContactType = "other"

// Fields lists every form field in rendering order.
var Fields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldCompany,
	FieldContactType,
	FieldOtherContactType,
	FieldMessage,
	FieldAgreeToTerms,
	FieldSubscribeNewsletter,
}

// FormState represents the values a visitor typed into the contact form
type FormState struct {
	FirstName           string `json:"firstName" form:"firstName" validate:"notblank"`
	LastName            string `json:"lastName" form:"lastName" validate:"notblank"`
	Email               string `json:"email" form:"email" validate:"notblank,contactemail"`
	Phone               string `json:"phone" form:"phone" validate:"notblank"`
	Company             string `json:"company" form:"company"`
	ContactType         string `json:"contactType" form:"contactType" validate:"required"`
	OtherContactType    string `json:"otherContactType" form:"otherContactType" validate:"required_if=ContactType other"`
	Message             string `json:"message" form:"message" validate:"notblank"`
	AgreeToTerms        bool   `json:"agreeToTerms" form:"agreeToTerms" validate:"required"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter" form:"subscribeNewsletter"`
}

// FieldErrors maps a field to its validation message. A missing key means
// the field has no error.
type FieldErrors map[Field]string

// Has reports whether the field currently carries an error.
func (e FieldErrors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or "" when there is none.
func (e FieldErrors) Get(field Field) string {
	return e[field]
}

// Clone returns an independent copy. A nil or empty map clones to nil.
func (e FieldErrors) Clone() FieldErrors {
	if len(e) == 0 {
		return nil
	}
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// SubmissionStatus is the lifecycle state of one form instance
type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusSubmitting
	StatusSuccess
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}
