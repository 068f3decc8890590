package product

import (
	"context"

	"github.com/google/uuid"
)

// Query is a fully resolved predicate set: the category facet has already
// been expanded into slugs. A nil CategorySlugs means no category clause;
// an empty non-nil slice can never match (unknown category fails closed
// and is short-circuited before reaching the store).
type Query struct {
	CategorySlugs []string
	MinPrice      *float64
	MaxPrice      *float64
	Tags          []string
	TenantSlug    string
	Sort          Sort
	Page          int
	Limit         int
}

// Repository defines the interface for product data storage.
// GetByID returns (nil, nil) on a lookup miss.
type Repository interface {
	Query(ctx context.Context, q *Query) (*ProductPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	// GetByIDsForTenant returns only products matching both the id set and
	// the tenant slug, so a count mismatch catches stale ids and
	// cross-tenant smuggling in one pass.
	GetByIDsForTenant(ctx context.Context, ids []uuid.UUID, tenantSlug string) ([]*Product, error)
}
