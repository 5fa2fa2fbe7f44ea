// Package validation configures the struct validator shared by the
// resource services and turns its failures into the detail strings the
// API reports.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom rules the resource schemas use
// registered. Error messages name fields by their json tag so they match
// the request payload. Registration of a literal tag cannot fail, so
// errors here are programmer mistakes and panic.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "imageurl", validImageURL)
	mustRegister(v, "linkurl", validLinkURL)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// validImageURL accepts http(s) URLs and inline data:image payloads.
// Empty values pass; pair with required when the field is mandatory.
func validImageURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if strings.HasPrefix(value, "data:image/") {
		return true
	}
	return isHTTPURL(value)
}

// validLinkURL accepts http(s) URLs only.
func validLinkURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return isHTTPURL(value)
}

func isHTTPURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Host == "" {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// Error is a request-body validation failure carrying per-field detail
// messages. Handlers map it to a 400 response.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// Check validates a struct and wraps failures in *Error.
func Check(v *validator.Validate, value any) error {
	if err := v.Struct(value); err != nil {
		return &Error{Details: FormatErrors(err)}
	}
	return nil
}

// FormatErrors flattens a validator error into per-field messages suitable
// for the details array of a validation failure response. Non-validator
// errors produce a single generic entry.
func FormatErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"invalid request body"}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "max":
		return fmt.Sprintf("%q must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%q must be at least %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("%q must be at least %s", field, fe.Param())
	case "imageurl":
		return fmt.Sprintf("%q must be an http(s) URL or a data:image URI", field)
	case "linkurl":
		return fmt.Sprintf("%q must be a valid http(s) URL", field)
	case "ulid":
		return fmt.Sprintf("%q must be a valid identifier", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
