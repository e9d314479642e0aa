package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidAmount indicates a conversion amount that is not allowed (negative).
// It unwraps to ErrValidation so callers can classify it generically.
var ErrInvalidAmount = fmt.Errorf("%w: amount must not be negative", ErrValidation)

// CurrencyRole identifies which side of a conversion a currency code was used on.
type CurrencyRole string

const (
	RoleSource      CurrencyRole = "source"
	RoleDestination CurrencyRole = "destination"
)

// CurrencyNotFoundError reports a currency code that has no usable rate or
// metadata, together with the side of the conversion it appeared on.
// It unwraps to ErrNotFound.
type CurrencyNotFoundError struct {
	Code string
	Role CurrencyRole
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("%s currency not found: %s", e.Role, e.Code)
}

func (e *CurrencyNotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewCurrencyNotFound builds a CurrencyNotFoundError for the given code and role.
func NewCurrencyNotFound(code string, role CurrencyRole) error {
	return &CurrencyNotFoundError{Code: code, Role: role}
}
