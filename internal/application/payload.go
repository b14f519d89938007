package application

import (
	"bytes"
	"encoding/json"
)

// Field is a string input that remembers whether it was supplied and whether
// the supplied value was actually a string. Decoding never fails on a Field;
// type problems surface later as validation violations.
type Field struct {
	Set   bool
	Valid bool
	Value string
}

// String returns a supplied, well-typed Field.
func String(value string) Field {
	return Field{Set: true, Valid: true, Value: value}
}

// Null returns a Field that was supplied without a string value.
func Null() Field {
	return Field{Set: true}
}

// UnmarshalJSON records presence and keeps non-string values as invalid.
func (f *Field) UnmarshalJSON(data []byte) error {
	*f = Field{Set: true}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return nil
	}
	f.Valid = true
	f.Value = value
	return nil
}

// SignupPayload is the input to account creation.
type SignupPayload struct {
	Email    Field
	Password Field
	Name     Field
}

// LoginPayload is the input to authentication.
type LoginPayload struct {
	Email    Field
	Password Field
}

// EventPayload carries event fields. On update only the supplied fields apply.
type EventPayload struct {
	Title       Field
	Description Field
	Date        Field
	Location    Field
}

// Empty reports whether no field was supplied.
func (p EventPayload) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Date.Set && !p.Location.Set
}

// overlay returns base with every field supplied in p replacing base's value.
func (p EventPayload) overlay(base EventPayload) EventPayload {
	merged := base
	if p.Title.Set {
		merged.Title = p.Title
	}
	if p.Description.Set {
		merged.Description = p.Description
	}
	if p.Date.Set {
		merged.Date = p.Date
	}
	if p.Location.Set {
		merged.Location = p.Location
	}
	return merged
}
