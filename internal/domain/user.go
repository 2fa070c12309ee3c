package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a chat participant. Exactly one row exists per ExternalID, which is
// the chat platform's integer identity.
type User struct {
	ID         uuid.UUID
	ExternalID int64
	Username   string
	FirstName  string
	LastName   string
	CreatedAt  time.Time
}

// Profile carries the chat identity and display fields used to find or
// create a User.
type Profile struct {
	ExternalID int64
	Username   string
	FirstName  string
	LastName   string
}
