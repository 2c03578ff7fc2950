package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("not permitted")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports input rejected before it reached the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// storeError keeps the driver error in the chain next to ErrStoreUnavailable.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// lookupError turns a missing row into ErrNotFound and anything else into a
// store error.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapNotFound(what)
	}
	return storeError("load "+what, err)
}

func wrapNotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}
