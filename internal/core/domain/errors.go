// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for stock operations. Every failure a caller can recover
// from maps to one of these sentinels; handlers translate them to HTTP
// statuses and anything else is treated as an internal error.
var (
	// ErrNotFound indicates an unknown store, product, inventory record,
	// purchase order or transaction key.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates a store-level out-adjustment or sale
	// that would drive the quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientAvailable indicates a warehouse reservation larger
	// than total - reserved at call time.
	ErrInsufficientAvailable = errors.New("insufficient available stock")

	// ErrInsufficientPayment indicates cash tendered below the sale total.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInvalidTransition indicates an illegal purchase order status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation indicates malformed input: zero or negative quantities,
	// empty item lists, unknown adjustment modes and the like.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError wraps ErrNotFound with the entity and key that missed.
func NotFoundError(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, key)
}

// ValidationError wraps ErrValidation with a human-readable reason.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// TransitionError wraps ErrInvalidTransition with the attempted edge.
func TransitionError(from, to PurchaseOrderStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
