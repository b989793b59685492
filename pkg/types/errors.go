package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the catalog, the resolvers and the
// client wraps exactly one of these, so callers can classify failures with
// errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExhausted   = errors.New("exhausted")
	ErrUnsupported = errors.New("unsupported operation")
	ErrIO          = errors.New("i/o failure")
)

// Identifier and layout errors.
var (
	ErrInvalidID      = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidBounds  = fmt.Errorf("%w: invalid area bounds", ErrValidation)
	ErrInvalidDirName = fmt.Errorf("%w: invalid directory name", ErrValidation)
	ErrInvalidConfig  = fmt.Errorf("%w: invalid configuration", ErrValidation)
)

// Catalog lookup and allocation errors.
var (
	ErrAreaNotFound     = fmt.Errorf("%w: area", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("%w: item", ErrNotFound)
	ErrNoResolver       = fmt.Errorf("%w: no resolver", ErrNotFound)
	ErrSlotOccupied     = fmt.Errorf("%w: slot already occupied", ErrConflict)
	ErrTargetExists     = fmt.Errorf("%w: target already exists", ErrConflict)
	ErrNoFreeSlot       = fmt.Errorf("%w: no free item slot", ErrExhausted)
)

// IOError wraps err so that it matches both ErrIO and the original error.
func IOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}
