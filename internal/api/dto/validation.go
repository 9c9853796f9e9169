package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

// ValidationError converts ozzo field errors into a VALIDATION_FAILED
// domain error whose details map each field to its message.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			if fieldErr != nil {
				details[field] = fieldErr.Error()
			}
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// Check runs v.Validate and maps its result.
func Check(v Validatable) error {
	return ValidationError(v.Validate())
}
