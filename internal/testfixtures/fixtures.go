package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/eventboard/internal/application"
	"github.com/example/eventboard/internal/persistence"
)

var (
	accountCounter uint64
	eventCounter   uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Account fixtures -----------------------------

// DefaultPassword is the plain-text password every AccountFixture signs up with.
const DefaultPassword = "secret1"

// AccountFixture represents a deterministic account that can be materialised
// as a signup payload or a stored record.
type AccountFixture struct {
	Email        string
	Name         string
	Password     string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountOption configures the generated account fixture.
type AccountOption func(*AccountFixture)

// NewAccountFixture returns a deterministic account fixture with optional overrides.
func NewAccountFixture(opts ...AccountOption) AccountFixture {
	idx := atomic.AddUint64(&accountCounter, 1)
	fixture := AccountFixture{
		Email:        fmt.Sprintf("account-%03d@example.com", idx),
		Name:         fmt.Sprintf("Account %03d", idx),
		Password:     DefaultPassword,
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAccountEmail overrides the generated email address.
func WithAccountEmail(email string) AccountOption {
	return func(f *AccountFixture) {
		f.Email = email
	}
}

// WithAccountName overrides the generated name.
func WithAccountName(name string) AccountOption {
	return func(f *AccountFixture) {
		f.Name = name
	}
}

// WithAccountPassword overrides the signup password.
func WithAccountPassword(password string) AccountOption {
	return func(f *AccountFixture) {
		f.Password = password
	}
}

// SignupPayload converts the fixture into a signup request.
func (f AccountFixture) SignupPayload() application.SignupPayload {
	return application.SignupPayload{
		Email:    application.String(f.Email),
		Password: application.String(f.Password),
		Name:     application.String(f.Name),
	}
}

// LoginPayload converts the fixture into a login request.
func (f AccountFixture) LoginPayload() application.LoginPayload {
	return application.LoginPayload{
		Email:    application.String(f.Email),
		Password: application.String(f.Password),
	}
}

// Persistence converts the fixture into a persistence.Account ready for insert.
func (f AccountFixture) Persistence() persistence.Account {
	return persistence.Account{
		Email:        f.Email,
		Name:         f.Name,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
	}
}

// ------------------------------ Event fixtures ------------------------------

// EventFixture represents a deterministic event. Nil optionals are omitted
// from payloads and stored as NULL.
type EventFixture struct {
	Title       string
	Description *string
	Date        string
	Location    *string
	OwnerID     int64
	CreatedAt   time.Time
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional overrides.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EventFixture{
		Title:     fmt.Sprintf("Event %03d", idx),
		Date:      created.AddDate(0, 0, 7).Format("2006-01-02"),
		CreatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventTitle overrides the generated title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) {
		f.Title = title
	}
}

// WithEventDate overrides the generated date.
func WithEventDate(date string) EventOption {
	return func(f *EventFixture) {
		f.Date = date
	}
}

// WithEventDescription sets the description.
func WithEventDescription(description string) EventOption {
	return func(f *EventFixture) {
		f.Description = &description
	}
}

// WithEventLocation sets the location.
func WithEventLocation(location string) EventOption {
	return func(f *EventFixture) {
		f.Location = &location
	}
}

// WithEventOwner assigns the owning account.
func WithEventOwner(ownerID int64) EventOption {
	return func(f *EventFixture) {
		f.OwnerID = ownerID
	}
}

// Payload converts the fixture into a create request payload.
func (f EventFixture) Payload() application.EventPayload {
	payload := application.EventPayload{
		Title: application.String(f.Title),
		Date:  application.String(f.Date),
	}
	if f.Description != nil {
		payload.Description = application.String(*f.Description)
	}
	if f.Location != nil {
		payload.Location = application.String(*f.Location)
	}
	return payload
}

// Persistence converts the fixture into a persistence.Event ready for insert.
func (f EventFixture) Persistence() persistence.Event {
	return persistence.Event{
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		Location:    f.Location,
		OwnerID:     f.OwnerID,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.CreatedAt,
	}
}
