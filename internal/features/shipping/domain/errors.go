package domain

import (
	"errors"
	"strings"

	"shipping-distance/internal/core/apperr"
)

// ErrNoRuleMatch is returned by RateTable.Match when no rule covers the distance and cart.
var ErrNoRuleMatch = apperr.New(apperr.KindNoRuleMatch, "no rate rule matches the distance and cart")

// ErrNothingToShip is returned when no cart line needs shipping.
var ErrNothingToShip = errors.New("no cart line needs shipping")

// ErrOrderNotFound is returned when the store has no such order.
var ErrOrderNotFound = errors.New("order not found")

// FieldError is one problem found in a settings document.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every problem found while validating settings.
type ValidationErrors []FieldError

// Add appends a problem for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no problems, otherwise a validation apperr wrapping v.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperr.Wrap(apperr.KindValidation, "invalid shipping settings", v)
}

// AsValidationErrors extracts the collected problems from err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
