package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for entitlement data storage.
// Find returns (nil, nil) on a miss.
type Repository interface {
	Find(ctx context.Context, userID, productID uuid.UUID) (*Entitlement, error)
	ExistsBySession(ctx context.Context, sessionID string) (bool, error)
	Create(ctx context.Context, e *Entitlement) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*EntitlementPage, error)
}
