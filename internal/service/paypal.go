package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/metrics"
	"berrypay/internal/model"
	"berrypay/internal/payment"
	"berrypay/internal/repository"

	"gorm.io/gorm"
)

const msgOrderNotFound = "Pedido não encontrado"

// PaymentService settles provider orders opened at purchase time.
type PaymentService interface {
	CaptureOrder(ctx context.Context, method model.PaymentMethod, orderID string) (*dto.CaptureResponse, error)
}

type paymentServiceImpl struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	payments     *payment.Registry
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewPaymentService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	payments *payment.Registry,
	m *metrics.Metrics,
	logger *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		payments:     payments,
		metrics:      m,
		logger:       logger.With("component", "payment"),
	}
}

// CaptureOrder asks the provider for the order's outcome and moves the sale
// accordingly. Capturing an already paid sale returns its delivery again
// without contacting the provider.
func (s *paymentServiceImpl) CaptureOrder(ctx context.Context, method model.PaymentMethod, orderID string) (*dto.CaptureResponse, error) {
	sale, err := s.saleRepo.FindByProviderOrderID(ctx, method, orderID)
	if err != nil {
		return nil, orNotFound(err, msgOrderNotFound)
	}

	if sale.Status == model.SaleStatusPending {
		sale, err = s.settle(ctx, sale)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.CaptureResponse{
		SaleID:     sale.ID,
		OrderID:    orderID,
		Status:     sale.Status,
		Deliveries: []dto.ProductDelivery{},
	}
	if sale.Status != model.SaleStatusPaid {
		return resp, nil
	}

	resp.Deliveries, err = s.deliveries(ctx, sale)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *paymentServiceImpl) settle(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	provider, ok := s.payments.Get(sale.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("no provider for payment method %q", sale.PaymentMethod)
	}

	settings, err := s.settingsRepo.FindByUser(ctx, sale.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find seller settings: %w", err)
	}

	status, err := provider.CaptureOrder(ctx, sale.ProviderOrderID, payment.PayeeFromSettings(settings))
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, apperror.Validation("orderId", msgMethodUnavailable)
		}
		return nil, fmt.Errorf("capture %s order: %w", sale.PaymentMethod, err)
	}

	var target model.SaleStatus
	switch status {
	case payment.StatusCompleted:
		target = model.SaleStatusPaid
	case payment.StatusFailed:
		target = model.SaleStatusFailed
	default:
		return sale, nil
	}

	updated, err := s.saleRepo.TransitionStatus(ctx, sale.ID, []model.SaleStatus{model.SaleStatusPending}, target)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, apperror.Validation("orderId", "Pedido já finalizado")
		}
		return nil, fmt.Errorf("transition sale: %w", err)
	}

	if target == model.SaleStatusPaid && s.metrics != nil {
		s.metrics.SalesPaid.WithLabelValues(string(sale.PaymentMethod)).Inc()
	}
	s.logger.Info("sale settled", "sale_id", sale.ID, "method", sale.PaymentMethod, "status", target)
	return updated, nil
}

// deliveries lists what the buyer receives for a paid sale: the main
// product, the order bump and the upsells, skipping deleted products.
func (s *paymentServiceImpl) deliveries(ctx context.Context, sale *model.Sale) ([]dto.ProductDelivery, error) {
	ids := []string{sale.ProductID}
	if sale.OrderBumpProduct != "" {
		ids = append(ids, sale.OrderBumpProduct)
	}
	ids = append(ids, sale.UpsellProductIDs.Data()...)

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find purchased products: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]dto.ProductDelivery, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, dto.ProductDelivery{
			ProductID: p.ID,
			Name:      p.Name,
			Delivery:  p.Delivery(),
		})
	}
	return out, nil
}
