package contactform

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/digitalocean/contact-page/pkg/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// messages maps a field and the failing validator tag to the text shown
// next to the control.
var messages = map[models.Field]map[string]string{
	models.FieldFirstName:        {"notblank": "First name is required"},
	models.FieldLastName:         {"notblank": "Last name is required"},
	models.FieldEmail:            {"notblank": "Email is required", "contactemail": "Invalid email format"},
	models.FieldPhone:            {"notblank": "Phone is required"},
	models.FieldContactType:      {"required": "Please select a contact type"},
	models.FieldOtherContactType: {"required_if": "Please select a specific type"},
	models.FieldMessage:          {"notblank": "Message is required"},
	models.FieldAgreeToTerms:     {"required": "You must agree to the terms"},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks every rule against state and returns the failing fields.
// An empty result means the state can be submitted.
func Validate(state models.FormState) models.FieldErrors {
	errs := models.FieldErrors{}

	err := formValidator().Struct(state)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable with an invalid validator setup.
		panic(err)
	}
	for _, fe := range verrs {
		field := models.Field(fe.Field())
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		errs[field] = msg
	}
	return errs
}
