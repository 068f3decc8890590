package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an independent seller with its own storefront and connected
// payment account. PaymentDetailsSubmitted flips true only after the
// external onboarding flow completes; checkout refuses unverified tenants.
type Tenant struct {
	ID                      uuid.UUID `json:"id"`
	Slug                    string    `json:"slug"`
	Name                    string    `json:"name"`
	PaymentAccountID        string    `json:"-"`
	PaymentDetailsSubmitted bool      `json:"payment_details_submitted"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
