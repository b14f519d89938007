package application

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const msgEmailInUse = "Email is already in use"

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

var validate = validator.New(validator.WithRequiredStructEnabled())

// dateLayouts are tried in order when parsing event dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ValidationResult lists every violated rule for a payload.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err returns the result as a *ValidationError, or nil when the payload is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: append([]string(nil), r.Errors...)}
}

func resultOf(vErr *ValidationError) ValidationResult {
	return ValidationResult{
		Valid:  !vErr.HasErrors(),
		Errors: append([]string{}, vErr.Errors...),
	}
}

// EmailRegistry reports whether a normalized email already belongs to an account.
type EmailRegistry interface {
	EmailInUse(ctx context.Context, email string) (bool, error)
}

// ValidateSignup checks a signup payload. When the email is well formed and
// registry is non-nil, it also reports an email that is already registered.
// A registry failure is returned as an error, not a violation.
func ValidateSignup(ctx context.Context, payload SignupPayload, registry EmailRegistry) (ValidationResult, error) {
	vErr := &ValidationError{}

	email := strings.TrimSpace(payload.Email.Value)
	if !payload.Email.Valid || email == "" || validate.Var(email, "email") != nil {
		vErr.add("Valid email is required")
	} else if registry != nil {
		inUse, err := registry.EmailInUse(ctx, NormalizeEmail(email))
		if err != nil {
			return ValidationResult{}, fmt.Errorf("check email availability: %w", err)
		}
		if inUse {
			vErr.add(msgEmailInUse)
		}
	}

	switch {
	case !payload.Password.Valid || strings.TrimSpace(payload.Password.Value) == "":
		vErr.add("Password must not be empty")
	case utf8.RuneCountInString(payload.Password.Value) < MinPasswordLength:
		vErr.add(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	if !payload.Name.Valid || strings.TrimSpace(payload.Name.Value) == "" {
		vErr.add("Name is required")
	}

	return resultOf(vErr), nil
}

// ValidateLogin checks only that both credentials are present.
func ValidateLogin(payload LoginPayload) ValidationResult {
	vErr := &ValidationError{}
	if !payload.Email.Valid || strings.TrimSpace(payload.Email.Value) == "" {
		vErr.add("Email is required")
	}
	if !payload.Password.Valid || strings.TrimSpace(payload.Password.Value) == "" {
		vErr.add("Password is required")
	}
	return resultOf(vErr)
}

// ValidateEvent checks a complete event payload. Optional fields that were not
// supplied are skipped.
func ValidateEvent(payload EventPayload) ValidationResult {
	vErr := &ValidationError{}

	title := payload.Title.Value
	switch {
	case !payload.Title.Valid || strings.TrimSpace(title) == "":
		vErr.add("Title is required")
	case strings.TrimSpace(title) != title:
		vErr.add("Title cannot have leading or trailing spaces")
	}

	vErr.merge(validateOptionalText("Description", payload.Description))

	date := strings.TrimSpace(payload.Date.Value)
	switch {
	case !payload.Date.Valid || date == "":
		vErr.add("Date is required")
	default:
		if _, err := ParseEventDate(date); err != nil {
			vErr.add("Date must be a valid date")
		}
	}

	vErr.merge(validateOptionalText("Location", payload.Location))

	return resultOf(vErr)
}

func validateOptionalText(label string, field Field) *ValidationError {
	vErr := &ValidationError{}
	if !field.Set {
		return vErr
	}

	trimmed := strings.TrimSpace(field.Value)
	switch {
	case !field.Valid:
		vErr.add(label + " must be a string")
	case trimmed == "" && field.Value != "":
		vErr.add(label + " cannot be only empty spaces")
	case field.Value != "" && trimmed != field.Value:
		vErr.add(label + " cannot have leading or trailing spaces")
	}
	return vErr
}

// ParseEventDate parses a calendar date or date-time in one of the accepted layouts.
func ParseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
