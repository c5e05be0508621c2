package payment

import (
	"context"
	"fmt"
	"strings"

	"berrypay/internal/client"
	"berrypay/internal/model"

	"github.com/google/uuid"
)

// ManualPix hands the seller's PIX key to the buyer. Nothing confirms the
// transfer automatically, so captures always report pending.
type ManualPix struct{}

func NewManualPix() *ManualPix {
	return &ManualPix{}
}

func (p *ManualPix) Method() model.PaymentMethod { return model.PaymentMethodPix }

func (p *ManualPix) Enabled(payee Payee) bool { return payee.PixKey != "" }

func (p *ManualPix) CreateOrder(_ context.Context, order *Order) (*OrderRef, error) {
	if order.Payee.PixKey == "" {
		return nil, ErrNotConfigured
	}
	return &OrderRef{
		ID:         "PIX-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")),
		PixKey:     order.Payee.PixKey,
		PixKeyType: order.Payee.PixKeyType,
	}, nil
}

func (p *ManualPix) CaptureOrder(context.Context, string, Payee) (Status, error) {
	return StatusPending, nil
}

// MercadoPagoPix generates a PIX QR code through Mercado Pago and reads the
// payment status back on capture.
type MercadoPagoPix struct {
	client client.MercadoPagoClient
}

func NewMercadoPagoPix(mp client.MercadoPagoClient) *MercadoPagoPix {
	return &MercadoPagoPix{client: mp}
}

func (p *MercadoPagoPix) Method() model.PaymentMethod { return model.PaymentMethodPix }

func (p *MercadoPagoPix) Enabled(Payee) bool { return true }

func (p *MercadoPagoPix) CreateOrder(ctx context.Context, order *Order) (*OrderRef, error) {
	firstName, _, _ := strings.Cut(strings.TrimSpace(order.Payer.Name), " ")
	pix, err := p.client.CreatePixPayment(ctx, &client.PixPaymentRequest{
		ExternalReference: order.Reference,
		Description:       order.Description,
		AmountCents:       order.AmountCents,
		PayerEmail:        order.Payer.Email,
		PayerFirstName:    firstName,
	})
	if err != nil {
		return nil, fmt.Errorf("create pix payment: %w", err)
	}

	return &OrderRef{
		ID:           pix.PaymentID,
		PixKey:       order.Payee.PixKey,
		PixKeyType:   order.Payee.PixKeyType,
		QRCode:       pix.QRCode,
		QRCodeBase64: pix.QRCodeBase64,
	}, nil
}

func (p *MercadoPagoPix) CaptureOrder(ctx context.Context, orderID string, _ Payee) (Status, error) {
	status, err := p.client.GetPaymentStatus(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("get pix payment status: %w", err)
	}

	switch status {
	case "approved":
		return StatusCompleted, nil
	case "rejected", "cancelled", "refunded", "charged_back":
		return StatusFailed, nil
	default:
		return StatusPending, nil
	}
}
