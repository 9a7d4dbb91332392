package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/dailycost/internal/model"
)

var rgbHex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return rgbHex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// Validate checks s against its validate tags. Failures are returned as a
// *model.ValidationError keyed by JSON field name.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating input: %w", err)
	}
	return &model.ValidationError{
		Message: "validation failed",
		Fields:  FormatValidationErrors(ve),
	}
}

// FormatValidationErrors converts validator errors into a map of
// field name to human-readable message.
func FormatValidationErrors(ve validator.ValidationErrors) map[string]string {
	errs := make(map[string]string, len(ve))
	for _, e := range ve {
		errs[fieldPath(e)] = formatFieldError(e)
	}
	return errs
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read like "tag_ids[0]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Minimum length is %s", e.Param())
		}
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Maximum length is %s", e.Param())
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s entries", e.Param())
		}
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	case "rgbhex":
		return "Must be a color in #RRGGBB format"
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}
