package shared

import "errors"

var (
	// ErrNotFound indicates the entity does not exist for the calling owner.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock indicates a sale exceeding the available units.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict indicates an atomic mutation exhausted its retries.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail occurs when a signup reuses a registered email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage maps an error to a message that can be shown to the caller
// without leaking internals.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrDuplicateEmail):
		return err.Error()
	default:
		return "internal error"
	}
}
