// Package validation wires the custom rules used by request bodies and
// usecase inputs into go-playground/validator, and converts its errors into
// field-level domain.ValidationError values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/go-playground/validator/v10"
)

// DateLayouts are the ISO-8601 forms accepted for dates.
var DateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses s using the first matching layout from DateLayouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: not ISO-8601", s)
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with custom rules registered.
// Struct fields are reported by their json name.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := Register(validate); err != nil {
			panic("register validations: " + err.Error())
		}
	})
	return validate
}

// Register adds the custom rules to v and reports fields by json name.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	rules := map[string]validator.Func{
		"hasupper": func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsUpper) >= 0
		},
		"hasdigit": func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
		},
		"appstatus": func(fl validator.FieldLevel) bool {
			return domain.Status(fl.Field().String()).Valid()
		},
		"iso8601": func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		},
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	if err := Validator().Struct(s); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts validator errors into *domain.ValidationError. Any
// other error (for example malformed JSON) becomes a single "body" error.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("body", "Invalid request body")
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

var labels = map[string]string{
	"name":         "Name",
	"email":        "Email",
	"password":     "Password",
	"company":      "Company name",
	"position":     "Position",
	"status":       "Status",
	"notes":        "Notes",
	"appliedDate":  "Applied date",
	"followUpDate": "Follow-up date",
	"version":      "Version",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func message(fe validator.FieldError) string {
	l := label(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return l + " is required"
	case "email":
		return "Please provide a valid email address"
	case "min":
		if fe.Field() == "password" {
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
		if fe.Field() == "name" {
			return "Name must be between 2 and 100 characters"
		}
		return fmt.Sprintf("%s must be at least %s", l, fe.Param())
	case "max":
		switch fe.Field() {
		case "name":
			return "Name must be between 2 and 100 characters"
		case "notes":
			return fmt.Sprintf("Notes cannot exceed %s characters", fe.Param())
		case "company", "position":
			return fmt.Sprintf("%s must be 1-%s characters", l, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", l, fe.Param())
	case "hasupper":
		return l + " must contain at least one uppercase letter"
	case "hasdigit":
		return l + " must contain at least one number"
	case "appstatus":
		return "Invalid status"
	case "iso8601":
		return l + " must be a valid date"
	}
	return l + " is invalid"
}
