package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	// Register creates the user together with their tenant and connected
	// payment account; the username becomes the tenant slug.
	Register(ctx context.Context, email, username, password string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
}
