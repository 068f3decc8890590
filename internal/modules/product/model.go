package product

import (
	"time"

	"github.com/google/uuid"
)

// RefundPolicy is the seller's refund window for a product.
type RefundPolicy string

const (
	Refund30Days RefundPolicy = "30_days"
	Refund60Days RefundPolicy = "60_days"
	Refund90Days RefundPolicy = "90_days"
	RefundNone   RefundPolicy = "no_refund"
)

// Product is a listing owned by exactly one tenant.
type Product struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	CategoryID   uuid.UUID    `json:"category_id"`
	CategorySlug string       `json:"category_slug"`
	TenantID     uuid.UUID    `json:"tenant_id"`
	TenantSlug   string       `json:"tenant_slug"`
	Tags         []string     `json:"tags"`
	RefundPolicy RefundPolicy `json:"refund_policy"`
	IsFeatured   bool         `json:"is_featured"`
	// ProtectedContent is only surfaced through the library, never on
	// storefront reads.
	ProtectedContent string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReviewStats summarizes the reviews of one product. Zero values mean
// "no reviews" and also "stats unavailable" after a degraded fetch.
type ReviewStats struct {
	ReviewCount  int     `json:"review_count"`
	ReviewRating float64 `json:"review_rating"`
}

// EnrichedProduct is a product with its review summary attached.
type EnrichedProduct struct {
	*Product
	ReviewStats
	// IsPurchased is set on single-product reads for an authenticated
	// viewer so the UI can swap the cart button for a library link.
	IsPurchased bool `json:"is_purchased,omitempty"`
}

// ProductPage is one page of raw query results.
type ProductPage struct {
	Docs        []*Product `json:"docs"`
	Page        int        `json:"page"`
	TotalDocs   int        `json:"total_docs"`
	TotalPages  int        `json:"total_pages"`
	HasNextPage bool       `json:"has_next_page"`
}

// Page is one page of enriched query results plus pagination metadata.
type Page struct {
	Docs        []*EnrichedProduct `json:"docs"`
	Page        int                `json:"page"`
	TotalDocs   int                `json:"total_docs"`
	TotalPages  int                `json:"total_pages"`
	HasNextPage bool               `json:"has_next_page"`
}
