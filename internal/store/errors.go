package store

import (
	"errors"
	"strings"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrTotalMismatch       = errors.New("order total does not match product prices")
	ErrInvalidTransition   = errors.New("illegal order status transition")
	ErrEmailTaken          = errors.New("email already registered")
	ErrIdempotencyConflict = errors.New("idempotency key already used")
)

// isUniqueViolation detects UNIQUE constraint failures from the sqlite
// driver by message, the driver does not expose a stable error code type.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
