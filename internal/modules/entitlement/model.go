package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement is durable, write-once proof that a user purchased a
// product. SessionID is the payment-session id that granted it and
// doubles as the idempotency key for webhook deliveries.
type Entitlement struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	SessionID string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// EntitlementPage is one page of a user's entitlements.
type EntitlementPage struct {
	Docs        []*Entitlement
	Page        int
	TotalDocs   int
	TotalPages  int
	HasNextPage bool
}
