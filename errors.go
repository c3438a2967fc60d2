package storefront

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("storefront: not found")
	ErrAlreadyExists = errors.New("storefront: already exists")
	ErrInvalidInput  = errors.New("storefront: invalid input")

	// Catalog errors
	ErrItemNotFound    = errors.New("storefront: item not found")
	ErrDuplicateItem   = errors.New("storefront: duplicate item id")
	ErrUnknownCode     = errors.New("storefront: unknown lookup code")
	ErrUnknownCategory = errors.New("storefront: unknown category")

	// Purchase errors
	ErrMemberNotFound = errors.New("storefront: member not found")
	ErrNoAccount      = errors.New("storefront: no ledger account")
	ErrCannotAfford   = errors.New("storefront: insufficient balance")
	ErrUnavailable    = errors.New("storefront: item unavailable")
	ErrDebitFailed    = errors.New("storefront: ledger debit failed")

	// State errors
	ErrKeyNotFound     = errors.New("storefront: state key not found")
	ErrStoreNotReady   = errors.New("storefront: store not ready")
	ErrStoreClosed     = errors.New("storefront: store is closed")
	ErrMigrationFailed = errors.New("storefront: migration failed")

	// Engine errors
	ErrNotStarted     = errors.New("storefront: engine not started")
	ErrAlreadyStarted = errors.New("storefront: engine already started")

	// Pack errors
	ErrPackNotFound  = errors.New("storefront: item pack not found")
	ErrDuplicatePack = errors.New("storefront: duplicate item pack")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("storefront: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "storefront: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("storefront: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrUnknownCode) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrKeyNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrPackNotFound)
}

// IsDenied returns true if the error represents a purchase denial rather
// than an infrastructure fault.
func IsDenied(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrCannotAfford) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrNoAccount)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrDebitFailed)
}
