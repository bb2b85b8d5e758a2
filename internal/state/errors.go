package state

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidBudget      = errors.New("budget must be a positive number")
	ErrInvalidCredentials = errors.New("credentials are empty")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrCartEmpty          = errors.New("cart is empty")

	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage failure")
)

// StorageError reports a read or write against the key-value store that kept
// failing after retries.
type StorageError struct {
	Op   string
	Keys []string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, strings.Join(e.Keys, ","), e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
