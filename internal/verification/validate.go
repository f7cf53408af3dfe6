package verification

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"batchtrace/pkg/domain"
	dErrors "batchtrace/pkg/domain-errors"
)

// Validator checks submissions field by field in a fixed order, stopping at
// the first failure so the caller always gets the earliest applicable error.
// Order: required fields, mobile format, email format, location.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks the request and returns nil or a domain error carrying the
// code for the first failed rule. It never touches the registry; a request
// that fails here is rejected before any lookup happens.
func (v *Validator) Validate(req Request) error {
	if strings.TrimSpace(req.FullName) == "" {
		return dErrors.New(dErrors.CodeMissingField, "full name is required")
	}
	if strings.TrimSpace(req.Mobile) == "" {
		return dErrors.New(dErrors.CodeMissingField, "mobile number is required")
	}
	if strings.TrimSpace(req.BatchCode) == "" {
		return dErrors.New(dErrors.CodeMissingField, "batch code is required")
	}

	if _, err := domain.ParseMobile(req.Mobile); err != nil {
		return err
	}

	// Email is optional, but when present it must be well formed.
	if email := strings.TrimSpace(req.Email); email != "" {
		if err := v.validate.Var(email, "email"); err != nil {
			return dErrors.New(dErrors.CodeInvalidEmail, "email address is not valid")
		}
	}

	if strings.TrimSpace(req.Location) == "" {
		return dErrors.New(dErrors.CodeLocationRequired, "location is required")
	}

	return nil
}
