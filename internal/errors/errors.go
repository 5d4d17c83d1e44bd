package errors

import (
	"errors"
	"fmt"
)

// Common error types for the embedded-app auth server
var (
	// Shop errors
	ErrInvalidShop  = errors.New("invalid shop domain")
	ErrShopNotFound = errors.New("shop not found")

	// Provider errors
	ErrProviderDenied = errors.New("provider denied authentication")
	ErrInvalidState   = errors.New("invalid oauth state")
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Provisioning errors
	ErrQueueFull = errors.New("install queue full")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
