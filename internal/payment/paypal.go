package payment

import (
	"context"
	"fmt"
	"strings"

	"berrypay/internal/client"
	"berrypay/internal/config"
	"berrypay/internal/model"

	"github.com/google/uuid"
)

// MockPaypal issues fake order ids and completes every capture.
type MockPaypal struct{}

func NewMockPaypal() *MockPaypal {
	return &MockPaypal{}
}

func (p *MockPaypal) Method() model.PaymentMethod { return model.PaymentMethodPaypal }

func (p *MockPaypal) Enabled(Payee) bool { return true }

func (p *MockPaypal) CreateOrder(_ context.Context, order *Order) (*OrderRef, error) {
	id := "MOCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:17])
	return &OrderRef{
		ID:         id,
		ApproveURL: order.ReturnURL,
	}, nil
}

func (p *MockPaypal) CaptureOrder(context.Context, string, Payee) (Status, error) {
	return StatusCompleted, nil
}

// ClientFactory builds a PayPal API client for a set of credentials.
type ClientFactory func(cfg *config.Paypal) client.PaypalClient

// LivePaypal talks to the PayPal orders API with the seller's credentials,
// falling back to the platform credentials when the seller has none.
type LivePaypal struct {
	platform  config.Paypal
	newClient ClientFactory
}

func NewLivePaypal(platform config.Paypal, newClient ClientFactory) *LivePaypal {
	if newClient == nil {
		newClient = client.NewPaypalClient
	}
	return &LivePaypal{
		platform:  platform,
		newClient: newClient,
	}
}

func (p *LivePaypal) Method() model.PaymentMethod { return model.PaymentMethodPaypal }

func (p *LivePaypal) Enabled(payee Payee) bool {
	_, ok := p.credentials(payee)
	return ok
}

func (p *LivePaypal) CreateOrder(ctx context.Context, order *Order) (*OrderRef, error) {
	cfg, ok := p.credentials(order.Payee)
	if !ok {
		return nil, ErrNotConfigured
	}

	resp, err := p.newClient(cfg).CreateOrder(ctx, &client.CreateOrderRequest{
		ReferenceID: order.Reference,
		Description: order.Description,
		AmountCents: order.AmountCents,
		Currency:    order.Currency,
		ReturnURL:   order.ReturnURL,
		CancelURL:   order.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}

	return &OrderRef{
		ID:         resp.OrderID,
		ApproveURL: resp.ApproveURL,
	}, nil
}

func (p *LivePaypal) CaptureOrder(ctx context.Context, orderID string, payee Payee) (Status, error) {
	cfg, ok := p.credentials(payee)
	if !ok {
		return "", ErrNotConfigured
	}

	resp, err := p.newClient(cfg).CaptureOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("paypal api capture order: %w", err)
	}

	switch resp.Status {
	case "COMPLETED":
		return StatusCompleted, nil
	case "DECLINED", "VOIDED":
		return StatusFailed, nil
	default:
		return StatusPending, nil
	}
}

func (p *LivePaypal) credentials(payee Payee) (*config.Paypal, bool) {
	cfg := p.platform
	if payee.PaypalClientID != "" && payee.PaypalClientSecret != "" {
		cfg.ClientID = payee.PaypalClientID
		cfg.ClientSecret = payee.PaypalClientSecret
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, false
	}
	return &cfg, true
}
