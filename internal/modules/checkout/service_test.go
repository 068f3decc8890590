package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funroad/funroad-backend/internal/apperr"
	"github.com/funroad/funroad-backend/internal/modules/product"
	"github.com/funroad/funroad-backend/internal/modules/tenant"
)

type fakeProducts struct{ byID map[uuid.UUID]*product.Product }

func (f *fakeProducts) GetByIDsForTenant(ctx context.Context, ids []uuid.UUID, tenantSlug string) ([]*product.Product, error) {
	var out []*product.Product
	for _, id := range ids {
		if p := f.byID[id]; p != nil && p.TenantSlug == tenantSlug {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTenants struct{ bySlug map[string]*tenant.Tenant }

func (f *fakeTenants) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	t := f.bySlug[slug]
	if t == nil {
		return nil, apperr.New(apperr.CodeNotFound, "TENANT_NOT_FOUND")
	}
	return t, nil
}

type fakeGranter struct {
	sessions map[string][]uuid.UUID
}

func (f *fakeGranter) Grant(ctx context.Context, sessionID string, userID uuid.UUID, productIDs []uuid.UUID) error {
	if f.sessions == nil {
		f.sessions = map[string][]uuid.UUID{}
	}
	if _, ok := f.sessions[sessionID]; ok {
		return nil
	}
	f.sessions[sessionID] = productIDs
	return nil
}

type fakeGateway struct {
	lastReq   *SessionRequest
	calls     int
	err       error
	completed *CompletedCheckout
	parseErr  error
}

func (f *fakeGateway) CreateAccount(ctx context.Context) (string, error) { return "acct_test", nil }

func (f *fakeGateway) CreateConnectedSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &Session{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

func (f *fakeGateway) ParseCompletedCheckout(ctx context.Context, payload []byte, signature string) (*CompletedCheckout, error) {
	return f.completed, f.parseErr
}

func testConfig() Config {
	return Config{
		CommissionRate: 0.10,
		Currency:       "usd",
		SuccessURL:     "https://funroad.example/tenants/%s/checkout?success=true",
		CancelURL:      "https://funroad.example/tenants/%s/checkout?cancel=true",
	}
}

func fixtures() (*fakeProducts, *fakeTenants, []*product.Product) {
	p1 := &product.Product{ID: uuid.New(), Name: "Course", Price: 60, TenantSlug: "acme"}
	p2 := &product.Product{ID: uuid.New(), Name: "Ebook", Price: 40, TenantSlug: "acme"}
	p3 := &product.Product{ID: uuid.New(), Name: "Poster", Price: 15, TenantSlug: "other"}
	products := &fakeProducts{byID: map[uuid.UUID]*product.Product{p1.ID: p1, p2.ID: p2, p3.ID: p3}}
	tenants := &fakeTenants{bySlug: map[string]*tenant.Tenant{
		"acme":  {ID: uuid.New(), Slug: "acme", PaymentAccountID: "acct_acme", PaymentDetailsSubmitted: true},
		"other": {ID: uuid.New(), Slug: "other", PaymentAccountID: "acct_other", PaymentDetailsSubmitted: true},
	}}
	return products, tenants, []*product.Product{p1, p2, p3}
}

func TestPurchaseHappyPath(t *testing.T) {
	products, tenants, docs := fixtures()
	gateway := &fakeGateway{}
	svc := NewService(products, tenants, &fakeGranter{}, gateway, testConfig())

	userID := uuid.New()
	sess, err := svc.Purchase(context.Background(), userID, "buyer@example.com", "acme",
		[]uuid.UUID{docs[0].ID, docs[1].ID})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_test", sess.URL)
	assert.Equal(t, 1, gateway.calls, "exactly one session per invocation")

	req := gateway.lastReq
	require.Len(t, req.LineItems, 2)
	assert.Equal(t, int64(6000), req.LineItems[0].UnitAmount)
	assert.Equal(t, int64(4000), req.LineItems[1].UnitAmount)
	// total 100.00 at 10% commission
	assert.Equal(t, int64(1000), req.ApplicationFeeAmount)
	assert.Equal(t, "acct_acme", req.ConnectedAccountID)
	assert.Equal(t, "buyer@example.com", req.CustomerEmail)
	assert.Equal(t, "https://funroad.example/tenants/acme/checkout?success=true", req.SuccessURL)
	assert.Equal(t, "https://funroad.example/tenants/acme/checkout?cancel=true", req.CancelURL)
	assert.Equal(t, userID.String(), req.Metadata[metadataUserID])
	assert.Equal(t, docs[0].ID, req.LineItems[0].ProductID)
}

func TestPurchaseRejectsCrossTenantSmuggling(t *testing.T) {
	products, tenants, docs := fixtures()
	gateway := &fakeGateway{}
	svc := NewService(products, tenants, &fakeGranter{}, gateway, testConfig())

	// docs[2] belongs to "other"; the found count (1) differs from the
	// requested count (2).
	_, err := svc.Purchase(context.Background(), uuid.New(), "buyer@example.com", "acme",
		[]uuid.UUID{docs[0].ID, docs[2].ID})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "PRODUCTS_NOT_FOUND", apperr.MessageOf(err))
	assert.Zero(t, gateway.calls, "no session on a failed precondition")
}

func TestPurchaseRejectsStaleIDs(t *testing.T) {
	products, tenants, docs := fixtures()
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{}, testConfig())

	_, err := svc.Purchase(context.Background(), uuid.New(), "buyer@example.com", "acme",
		[]uuid.UUID{docs[0].ID, uuid.New()})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestPurchaseRejectsUnknownTenant(t *testing.T) {
	products, tenants, docs := fixtures()
	delete(tenants.bySlug, "acme")
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{}, testConfig())

	_, err := svc.Purchase(context.Background(), uuid.New(), "buyer@example.com", "acme",
		[]uuid.UUID{docs[0].ID})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "TENANT_NOT_FOUND", apperr.MessageOf(err))
}

func TestPurchaseRejectsUnverifiedTenant(t *testing.T) {
	products, tenants, docs := fixtures()
	tenants.bySlug["acme"].PaymentDetailsSubmitted = false
	gateway := &fakeGateway{}
	svc := NewService(products, tenants, &fakeGranter{}, gateway, testConfig())

	_, err := svc.Purchase(context.Background(), uuid.New(), "buyer@example.com", "acme",
		[]uuid.UUID{docs[0].ID})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
	assert.Zero(t, gateway.calls)
}

func TestPurchaseRejectsEmptyCart(t *testing.T) {
	products, tenants, _ := fixtures()
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{}, testConfig())

	_, err := svc.Purchase(context.Background(), uuid.New(), "buyer@example.com", "acme", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestPurchaseGatewayFailureIsInternal(t *testing.T) {
	products, tenants, docs := fixtures()
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{err: assert.AnError}, testConfig())

	_, err := svc.Purchase(context.Background(), uuid.New(), "buyer@example.com", "acme",
		[]uuid.UUID{docs[0].ID})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestPlatformFeeSplitsExactly(t *testing.T) {
	// fee + net must reassemble the total at cent granularity for awkward
	// amounts too.
	for _, totalCents := range []int64{1, 99, 10000, 12345, 9999999} {
		fee := platformFeeCents(totalCents, 0.10)
		net := totalCents - fee
		assert.Equal(t, totalCents, fee+net)
		assert.GreaterOrEqual(t, fee, int64(0))
	}
	assert.Equal(t, int64(1000), platformFeeCents(10000, 0.10))
	// 123.45 * 0.10 rounds 12.345 to 12.35
	assert.Equal(t, int64(1235), platformFeeCents(12345, 0.10))
}

func TestGetProductsTotals(t *testing.T) {
	products, tenants, docs := fixtures()
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{}, testConfig())

	summary, err := svc.GetProducts(context.Background(), "acme", []uuid.UUID{docs[0].ID, docs[1].ID})
	require.NoError(t, err)
	assert.Len(t, summary.Docs, 2)
	assert.Equal(t, 100.0, summary.TotalPrice)
}

func TestGetProductsCountMismatch(t *testing.T) {
	products, tenants, docs := fixtures()
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{}, testConfig())

	_, err := svc.GetProducts(context.Background(), "acme", []uuid.UUID{docs[0].ID, docs[2].ID})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestHandlePaymentEventGrants(t *testing.T) {
	products, tenants, docs := fixtures()
	granter := &fakeGranter{}
	userID := uuid.New()
	gateway := &fakeGateway{completed: &CompletedCheckout{
		SessionID:  "cs_done",
		UserID:     userID,
		ProductIDs: []uuid.UUID{docs[0].ID, docs[1].ID},
	}}
	svc := NewService(products, tenants, granter, gateway, testConfig())

	require.NoError(t, svc.HandlePaymentEvent(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, []uuid.UUID{docs[0].ID, docs[1].ID}, granter.sessions["cs_done"])
}

func TestHandlePaymentEventIgnoresIrrelevantEvents(t *testing.T) {
	products, tenants, _ := fixtures()
	granter := &fakeGranter{}
	svc := NewService(products, tenants, granter, &fakeGateway{}, testConfig())

	require.NoError(t, svc.HandlePaymentEvent(context.Background(), []byte("{}"), "sig"))
	assert.Empty(t, granter.sessions)
}

func TestHandlePaymentEventRejectsBadSignature(t *testing.T) {
	products, tenants, _ := fixtures()
	svc := NewService(products, tenants, &fakeGranter{}, &fakeGateway{parseErr: assert.AnError}, testConfig())

	err := svc.HandlePaymentEvent(context.Background(), []byte("{}"), "bad")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}
