package ledger

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger. Match them with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
	ErrIO          = errors.New("io error")
)

// ValidationError reports malformed or missing user input.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// PersistenceError reports that the store was unreachable or rejected op.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%w, %s: %w", ErrPersistence, op, err)
}

// IOError reports that path could not be opened or written.
func IOError(path string, err error) error {
	return fmt.Errorf("%w, %s: %w", ErrIO, path, err)
}
