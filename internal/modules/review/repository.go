package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for review data storage.
// Single-row lookups return (nil, nil) on a miss.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*Review, error)
	Create(ctx context.Context, rv *Review) error
	Update(ctx context.Context, rv *Review) error
}
