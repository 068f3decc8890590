package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for category data storage.
// GetBySlug returns (nil, nil) on a lookup miss.
type Repository interface {
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Category, error)
	ListTopLevel(ctx context.Context) ([]*Category, error)
}
