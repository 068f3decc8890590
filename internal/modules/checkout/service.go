package checkout

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/product"
	"github.com/funroad/funroad-backend/internal/modules/tenant"
	"github.com/funroad/funroad-backend/metrics"
)

// ProductSource fetches products constrained to one tenant. Implemented
// by the product repository.
type ProductSource interface {
	GetByIDsForTenant(ctx context.Context, ids []uuid.UUID, tenantSlug string) ([]*product.Product, error)
}

// TenantSource resolves a tenant by slug. Implemented by the tenant
// service, which already types its lookup miss as NOT_FOUND.
type TenantSource interface {
	GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
}

// Granter records entitlements for a completed payment session.
type Granter interface {
	Grant(ctx context.Context, sessionID string, userID uuid.UUID, productIDs []uuid.UUID) error
}

// Config carries the orchestrator's operational values.
type Config struct {
	// CommissionRate is the platform's cut, e.g. 0.10.
	CommissionRate float64
	Currency       string
	// SuccessURL and CancelURL are printf templates taking the tenant slug.
	SuccessURL string
	CancelURL  string
}

// Service is the checkout orchestrator: it validates a tenant-scoped
// cart against current server state and requests one split-payment
// session. It performs no local mutation; entitlements are created only
// by the completion event.
type Service interface {
	Purchase(ctx context.Context, userID uuid.UUID, email, tenantSlug string, productIDs []uuid.UUID) (*Session, error)
	// GetProducts re-validates a client cart server-side and totals it.
	GetProducts(ctx context.Context, tenantSlug string, productIDs []uuid.UUID) (*CartSummary, error)
	// HandlePaymentEvent processes an inbound provider event, granting
	// entitlements idempotently on the session id.
	HandlePaymentEvent(ctx context.Context, payload []byte, signature string) error
}

type service struct {
	products ProductSource
	tenants  TenantSource
	granter  Granter
	gateway  Gateway
	cfg      Config
}

func NewService(products ProductSource, tenants TenantSource, granter Granter, gateway Gateway, cfg Config) Service {
	return &service{products: products, tenants: tenants, granter: granter, gateway: gateway, cfg: cfg}
}

func (s *service) Purchase(ctx context.Context, userID uuid.UUID, email, tenantSlug string, productIDs []uuid.UUID) (*Session, error) {
	if len(productIDs) == 0 {
		return nil, apperr.New(apperr.CodeBadRequest, "cart is empty")
	}

	// Both clauses at once: a count mismatch catches stale ids, deleted
	// products and cross-tenant smuggling in a single check.
	found, err := s.products.GetByIDsForTenant(ctx, productIDs, tenantSlug)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "product lookup failed", err)
	}
	if len(found) != len(productIDs) {
		return nil, apperr.New(apperr.CodeNotFound, "PRODUCTS_NOT_FOUND")
	}

	t, err := s.tenants.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	if !t.PaymentDetailsSubmitted {
		return nil, apperr.New(apperr.CodeBadRequest, "tenant has not completed payment onboarding")
	}

	lineItems := make([]LineItem, 0, len(found))
	var totalCents int64
	for _, p := range found {
		cents := toCents(p.Price)
		totalCents += cents
		lineItems = append(lineItems, LineItem{
			ProductID:  p.ID,
			Name:       p.Name,
			UnitAmount: cents,
			Quantity:   1,
		})
	}
	feeCents := platformFeeCents(totalCents, s.cfg.CommissionRate)

	sess, err := s.gateway.CreateConnectedSession(ctx, &SessionRequest{
		LineItems:            lineItems,
		Currency:             s.cfg.Currency,
		ApplicationFeeAmount: feeCents,
		ConnectedAccountID:   t.PaymentAccountID,
		CustomerEmail:        email,
		SuccessURL:           fmt.Sprintf(s.cfg.SuccessURL, tenantSlug),
		CancelURL:            fmt.Sprintf(s.cfg.CancelURL, tenantSlug),
		Metadata:             map[string]string{metadataUserID: userID.String()},
	})
	if err != nil {
		metrics.RecordCheckoutSession("failed")
		return nil, apperr.Wrap(apperr.CodeInternal, "payment session creation failed", err)
	}
	metrics.RecordCheckoutSession("created")
	return sess, nil
}

func (s *service) GetProducts(ctx context.Context, tenantSlug string, productIDs []uuid.UUID) (*CartSummary, error) {
	if len(productIDs) == 0 {
		return &CartSummary{Docs: []*product.Product{}}, nil
	}

	found, err := s.products.GetByIDsForTenant(ctx, productIDs, tenantSlug)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "product lookup failed", err)
	}
	if len(found) != len(productIDs) {
		return nil, apperr.New(apperr.CodeNotFound, "PRODUCTS_NOT_FOUND")
	}

	summary := &CartSummary{Docs: found}
	for _, p := range found {
		summary.TotalPrice += p.Price
	}
	return summary, nil
}

func (s *service) HandlePaymentEvent(ctx context.Context, payload []byte, signature string) error {
	completed, err := s.gateway.ParseCompletedCheckout(ctx, payload, signature)
	if err != nil {
		return apperr.Wrap(apperr.CodeBadRequest, "invalid payment event", err)
	}
	if completed == nil {
		// Not a completed checkout; acknowledge and move on.
		return nil
	}
	return s.granter.Grant(ctx, completed.SessionID, completed.UserID, completed.ProductIDs)
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// platformFeeCents rounds half away from zero at cent precision, so
// fee + tenant net always reassembles the exact total.
func platformFeeCents(totalCents int64, rate float64) int64 {
	return int64(math.Round(float64(totalCents) * rate))
}
