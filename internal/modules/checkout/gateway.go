package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
	"golang.org/x/time/rate"
)

// Gateway is the provider-agnostic interface to the external payment
// service. One hosted session per CreateConnectedSession call.
type Gateway interface {
	// CreateAccount provisions a connected account for a new tenant.
	CreateAccount(ctx context.Context) (string, error)
	CreateConnectedSession(ctx context.Context, req *SessionRequest) (*Session, error)
	// ParseCompletedCheckout verifies and decodes an inbound provider
	// event. Events that are not a completed checkout return (nil, nil).
	ParseCompletedCheckout(ctx context.Context, payload []byte, signature string) (*CompletedCheckout, error)
}

type stripeGateway struct {
	api           *client.API
	webhookSecret string
	limiter       *rate.Limiter
}

// NewStripeGateway builds the Stripe Connect adapter. Outbound calls are
// rate limited to stay under the provider's request budget.
func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		limiter:       rate.NewLimiter(rate.Limit(25), 25),
	}
}

func (g *stripeGateway) CreateAccount(ctx context.Context) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	account, err := g.api.Accounts.New(&stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
	})
	if err != nil {
		return "", fmt.Errorf("create connected account: %w", err)
	}
	return account.ID, nil
}

func (g *stripeGateway) CreateConnectedSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
					Metadata: map[string]string{
						metadataProductID: item.ProductID.String(),
					},
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     lineItems,
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
		InvoiceCreation: &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(req.ApplicationFeeAmount),
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.SetStripeAccount(req.ConnectedAccountID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) ParseCompletedCheckout(ctx context.Context, payload []byte, signature string) (*CompletedCheckout, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}
	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}

	userID, err := uuid.Parse(sess.Metadata[metadataUserID])
	if err != nil {
		return nil, fmt.Errorf("session %s has no valid %s metadata", sess.ID, metadataUserID)
	}

	// Line-item product metadata lives behind an expansion on the
	// connected account.
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items.data.price.product")
	params.SetStripeAccount(event.Account)
	expanded, err := g.api.CheckoutSessions.Get(sess.ID, params)
	if err != nil {
		return nil, fmt.Errorf("expand session line items: %w", err)
	}

	var productIDs []uuid.UUID
	for _, item := range expanded.LineItems.Data {
		if item.Price == nil || item.Price.Product == nil {
			continue
		}
		id, err := uuid.Parse(item.Price.Product.Metadata[metadataProductID])
		if err != nil {
			return nil, fmt.Errorf("line item %s has no valid %s metadata", item.ID, metadataProductID)
		}
		productIDs = append(productIDs, id)
	}

	return &CompletedCheckout{
		SessionID:  sess.ID,
		UserID:     userID,
		ProductIDs: productIDs,
	}, nil
}
