package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a buyer or seller account. Username doubles as the
// tenant slug created at registration.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
