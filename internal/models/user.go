package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered back-office account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's login address (unique).
	Email string

	// DisplayName is shown in balances and settlement listings.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the account.
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Participant returns the view of this user used by the settlement engine.
func (u *User) Participant() Participant {
	return Participant{ID: u.ID, DisplayName: u.DisplayName}
}

// Participant is an identifier plus display name. The engine treats it as immutable.
type Participant struct {
	ID          string
	DisplayName string
}
