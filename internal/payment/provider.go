// Package payment defines the provider contract used to record sales
// independently of the gateway that settles them.
package payment

import (
	"context"
	"errors"
	"sort"

	"berrypay/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrNotConfigured is returned when the seller lacks the credentials a provider needs.
var ErrNotConfigured = errors.New("payment provider not configured for seller")

// Payee carries the seller-side credentials a provider may need.
type Payee struct {
	PixKey             string
	PixKeyType         string
	PaypalClientID     string
	PaypalClientSecret string
}

func PayeeFromSettings(s *model.Settings) Payee {
	if s == nil {
		return Payee{}
	}
	return Payee{
		PixKey:             s.PixKey,
		PixKeyType:         s.PixKeyType,
		PaypalClientID:     s.PaypalClientID,
		PaypalClientSecret: s.PaypalClientSecret,
	}
}

type Payer struct {
	Name  string
	Email string
}

type Order struct {
	Reference   string // sale id
	Description string
	AmountCents int64
	Currency    string
	ReturnURL   string
	CancelURL   string
	Payer       Payer
	Payee       Payee
}

// OrderRef is what the buyer needs to complete payment.
type OrderRef struct {
	ID           string
	ApproveURL   string
	PixKey       string
	PixKeyType   string
	QRCode       string
	QRCodeBase64 string
}

type Provider interface {
	Method() model.PaymentMethod
	Enabled(payee Payee) bool
	CreateOrder(ctx context.Context, order *Order) (*OrderRef, error)
	CaptureOrder(ctx context.Context, orderID string, payee Payee) (Status, error)
}

type Registry struct {
	providers map[model.PaymentMethod]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[model.PaymentMethod]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Method()] = p
	}
	return r
}

func (r *Registry) Get(method model.PaymentMethod) (Provider, bool) {
	p, ok := r.providers[method]
	return p, ok
}

// EnabledMethods lists, in stable order, the methods payee can be paid with.
func (r *Registry) EnabledMethods(payee Payee) []model.PaymentMethod {
	methods := make([]model.PaymentMethod, 0, len(r.providers))
	for method, p := range r.providers {
		if p.Enabled(payee) {
			methods = append(methods, method)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}
