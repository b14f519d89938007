package application

import (
	"errors"
	"slices"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrForbidden is returned when the caller does not own the targeted resource.
	ErrForbidden = errors.New("application: forbidden")
	// ErrDuplicateEmail is returned when an account with the same normalized email already exists.
	ErrDuplicateEmail = errors.New("application: email already exists")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrInvalidToken is returned for malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("application: invalid token")
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("application: token expired")
	// ErrInvalidSubject is returned when a token is requested without an account id or email.
	ErrInvalidSubject = errors.New("application: token subject requires account id and email")
)

// ValidationError carries every violated input rule, in the order the rules were checked.
type ValidationError struct {
	Errors []string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// Is matches ErrDuplicateEmail when the taken-email rule is among the
// violations, so a signup conflict found by validation and one reported by
// the store can be handled alike.
func (v *ValidationError) Is(target error) bool {
	return v != nil && target == ErrDuplicateEmail && slices.Contains(v.Errors, msgEmailInUse)
}

// HasErrors reports whether any violations were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// add records a violation.
func (v *ValidationError) add(message string) {
	v.Errors = append(v.Errors, message)
}

// merge appends violations from another validation error to the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.Errors) == 0 {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
}
