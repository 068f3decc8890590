package checkout

import (
	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/modules/product"
)

// LineItem is one product priced server-side, in minor currency units.
// Product identity travels as line-item metadata so the completion
// handler can reconcile entitlements later.
type LineItem struct {
	ProductID  uuid.UUID
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionRequest is everything the payment provider needs for one hosted
// split-payment session.
type SessionRequest struct {
	LineItems            []LineItem
	Currency             string
	ApplicationFeeAmount int64
	ConnectedAccountID   string
	CustomerEmail        string
	SuccessURL           string
	CancelURL            string
	// Metadata carries the buyer's user id for the completion handler.
	Metadata map[string]string
}

// Session is the provider's hosted payment session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedCheckout is a payment-completion event reduced to what the
// entitlement grant needs. SessionID is the idempotency key.
type CompletedCheckout struct {
	SessionID  string
	UserID     uuid.UUID
	ProductIDs []uuid.UUID
}

// CartSummary is the server-side re-validation view of a client cart.
type CartSummary struct {
	Docs       []*product.Product `json:"docs"`
	TotalPrice float64            `json:"total_price"`
}

const metadataUserID = "user_id"
const metadataProductID = "product_id"
