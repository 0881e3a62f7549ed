// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation rules.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the region assumed for phone numbers written without a
// leading "+" and country code.
const DefaultRegion = "US"

var validate = validator.New()

// init registers custom validation rules with the validator instance.
// This function runs automatically when the package is imported.
func init() {
	// Report fields by their JSON names so messages match the request body.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}

		return name
	})

	// RegisterValidation registers the "phone" tag.
	// The field must parse as a valid number for its country code,
	// or for DefaultRegion when no country code is given.
	err := validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			// Allow empty strings to be handled by the 'required' tag.
			return true
		}

		_, err := NormalizePhone(fl.Field().String())

		return err == nil
	})
	if err != nil {
		// Panic on initialization if a custom validator fails to register,
		// as it indicates a critical startup failure.
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// NormalizePhone parses a phone number and returns it in E.164 form.
func NormalizePhone(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("phone number %q is not valid", raw)
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// ValidationError is a custom error type that holds a slice of validation error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its validation tags.
// If validation fails, it returns a *ValidationError with user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		// Cast the error to validator.ValidationErrors to iterate over individual field errors.
		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "required":
				message = fmt.Sprintf("field '%s' is required", err.Field())
			case "email":
				message = fmt.Sprintf("field '%s' must be a valid email address", err.Field())
			case "phone":
				message = fmt.Sprintf("field '%s' must be a valid phone number", err.Field())
			case "uuid":
				message = fmt.Sprintf("field '%s' must be a valid id", err.Field())
			case "oneof":
				message = fmt.Sprintf("field '%s' must be one of: %s", err.Field(), err.Param())
			default:
				// Default message for other standard validation tags like 'min', 'max', etc.
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
