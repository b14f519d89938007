package application

import "time"

// Identity is the verified caller carried by a token.
type Identity struct {
	AccountID int64
	Email     string
}

// Account is a registered account as exposed to callers. The password hash
// never leaves the service layer.
type Account struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}

// Token is a signed identity token and the instant it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Account Account
	Token   Token
}

// Event is a stored event.
type Event struct {
	ID          int64
	Title       string
	Description *string
	Date        string
	Location    *string
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateEventParams wraps the data required to create an event.
type CreateEventParams struct {
	Identity Identity
	Payload  EventPayload
}

// UpdateEventParams wraps the data required to update an event.
type UpdateEventParams struct {
	Identity Identity
	EventID  string
	Payload  EventPayload
}

// DeleteEventParams wraps the data required to delete an event.
type DeleteEventParams struct {
	Identity Identity
	EventID  string
}
