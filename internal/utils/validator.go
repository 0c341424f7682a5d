// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var licenseKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("license_key", validateLicenseKey)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// License keys are opaque but must be safe to carry in a URL path segment.
func validateLicenseKey(fl validator.FieldLevel) bool {
	return licenseKeyPattern.MatchString(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "license_key":
		return "License key must be 1-128 characters of letters, digits, '-' or '_'"
	default:
		return e.Field() + " is invalid"
	}
}
