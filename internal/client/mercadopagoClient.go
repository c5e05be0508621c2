package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/shopspring/decimal"
)

type MercadoPagoClient interface {
	CreatePixPayment(ctx context.Context, req *PixPaymentRequest) (*PixPayment, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (string, error)
}

type PixPaymentRequest struct {
	ExternalReference string
	Description       string
	AmountCents       int64
	PayerEmail        string
	PayerFirstName    string
}

type PixPayment struct {
	PaymentID    string
	Status       string // pending, approved, rejected, cancelled ...
	QRCode       string
	QRCodeBase64 string
	TicketURL    string
}

type mercadoPagoClientImpl struct {
	payments payment.Client
}

func NewMercadoPagoClient(accessToken string) (MercadoPagoClient, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &mercadoPagoClientImpl{
		payments: payment.NewClient(cfg),
	}, nil
}

func (c *mercadoPagoClientImpl) CreatePixPayment(ctx context.Context, req *PixPaymentRequest) (*PixPayment, error) {
	request := payment.Request{
		TransactionAmount: decimal.New(req.AmountCents, -2).InexactFloat64(),
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.ExternalReference,
		Payer: &payment.PayerRequest{
			Email:     req.PayerEmail,
			FirstName: req.PayerFirstName,
		},
	}

	resource, err := c.payments.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("mercadopago create pix payment: %w", err)
	}

	return &PixPayment{
		PaymentID:    strconv.Itoa(int(resource.ID)),
		Status:       resource.Status,
		QRCode:       resource.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: resource.PointOfInteraction.TransactionData.QRCodeBase64,
		TicketURL:    resource.PointOfInteraction.TransactionData.TicketURL,
	}, nil
}

func (c *mercadoPagoClientImpl) GetPaymentStatus(ctx context.Context, paymentID string) (string, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return "", fmt.Errorf("invalid mercadopago payment id %q: %w", paymentID, err)
	}

	resource, err := c.payments.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("mercadopago get payment: %w", err)
	}

	return resource.Status, nil
}
