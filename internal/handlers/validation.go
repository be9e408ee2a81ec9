package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/views"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format.
// err may wrap the validator.ValidationErrors.
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   formField(fieldError.Field()),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

// fieldErrors indexes validation errors by form field for the templates.
// The first error of a field wins.
func fieldErrors(err error) views.FieldErrors {
	out := views.FieldErrors{}
	for _, ve := range ParseValidationErrors(err) {
		if _, exists := out[ve.Field]; !exists {
			out[ve.Field] = ve.Message
		}
	}
	return out
}

func formField(structField string) string {
	return strings.ToLower(structField)
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case models.TagStage:
		return "Stage must be one of: new, contacted, qualified, converted, lost"
	case models.TagDecimal:
		return "Value must be a non-negative number"
	case models.TagPhone:
		return "Invalid phone number"
	case models.TagTimezone:
		return "Unknown timezone"
	default:
		return fe.Field() + " is invalid"
	}
}
