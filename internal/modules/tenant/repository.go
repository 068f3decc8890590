package tenant

import "context"

// Repository defines the interface for tenant data storage.
// GetBySlug returns (nil, nil) on a lookup miss.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}
