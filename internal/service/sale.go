package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/metrics"
	"berrypay/internal/model"
	"berrypay/internal/payment"
	"berrypay/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgSaleNotFound      = "Venda não encontrada"
	msgMethodUnavailable = "Forma de pagamento indisponível para este checkout"
	defaultSalesLimit    = 50
)

type SaleService interface {
	Purchase(ctx context.Context, slug string, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	List(ctx context.Context, userID string, query *dto.SaleListQuery) (*dto.SaleListResponse, error)
	UpdateStatus(ctx context.Context, userID, saleID string, status model.SaleStatus) (*model.Sale, error)
}

type SaleServiceDeps struct {
	CheckoutRepo repository.CheckoutRepository
	ProductRepo  repository.ProductRepository
	SettingsRepo repository.SettingsRepository
	SaleRepo     repository.SaleRepository
	Payments     *payment.Registry
	Metrics      *metrics.Metrics
	Currency     string
	BaseURL      string
	Logger       *slog.Logger
}

type saleServiceImpl struct {
	checkoutRepo repository.CheckoutRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	saleRepo     repository.SaleRepository
	payments     *payment.Registry
	metrics      *metrics.Metrics
	currency     string
	baseURL      string
	logger       *slog.Logger
}

func NewSaleService(deps SaleServiceDeps) SaleService {
	return &saleServiceImpl{
		checkoutRepo: deps.CheckoutRepo,
		productRepo:  deps.ProductRepo,
		settingsRepo: deps.SettingsRepo,
		saleRepo:     deps.SaleRepo,
		payments:     deps.Payments,
		metrics:      deps.Metrics,
		currency:     deps.Currency,
		baseURL:      strings.TrimRight(deps.BaseURL, "/"),
		logger:       deps.Logger.With("component", "sale"),
	}
}

// Purchase records a pending sale for the checkout behind slug and opens an
// order with the chosen payment provider.
//
// The amount is the product price plus the order bump and upsells the buyer
// selected, counting only products the checkout actually offers. A custom
// amount replaces that total only when the checkout allows it.
func (s *saleServiceImpl) Purchase(ctx context.Context, slug string, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	checkout, err := s.checkoutRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	if !checkout.Active {
		return nil, apperror.NotFound(msgCheckoutNotFound)
	}
	product, err := s.productRepo.FindByID(ctx, checkout.ProductID)
	if err != nil {
		return nil, orNotFound(err, msgCheckoutNotFound)
	}
	if !product.Active || product.UserID != checkout.UserID {
		return nil, apperror.NotFound(msgCheckoutNotFound)
	}

	cfg := checkout.Config.Data()
	if err := requireCustomerFields(&cfg, req); err != nil {
		return nil, err
	}

	method := model.PaymentMethod(req.PaymentMethod)
	provider, ok := s.payments.Get(method)
	if !ok {
		return nil, apperror.Validation("paymentMethod", msgMethodUnavailable)
	}
	settings, err := s.settingsRepo.FindByUser(ctx, checkout.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find seller settings: %w", err)
	}
	payee := payment.PayeeFromSettings(settings)
	if !provider.Enabled(payee) {
		return nil, apperror.Validation("paymentMethod", msgMethodUnavailable)
	}

	sale := &model.Sale{
		ID:               uuid.NewString(),
		UserID:           checkout.UserID,
		CheckoutID:       checkout.ID,
		ProductID:        product.ID,
		Amount:           product.Price,
		Currency:         s.currency,
		Status:           model.SaleStatusPending,
		PaymentMethod:    method,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerEmail:    strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		CustomerCpf:      strings.TrimSpace(req.CustomerCpf),
		UpsellProductIDs: datatypes.NewJSONType([]string{}),
	}

	extras, err := s.selectedExtras(ctx, checkout.UserID, &cfg, req)
	if err != nil {
		return nil, err
	}
	upsellIDs := []string{}
	for _, p := range extras {
		sale.Amount += p.Price
		if cfg.OrderBumpProduct != nil && p.ID == *cfg.OrderBumpProduct {
			sale.OrderBump = true
			sale.OrderBumpProduct = p.ID
			continue
		}
		upsellIDs = append(upsellIDs, p.ID)
	}
	sale.UpsellProductIDs = datatypes.NewJSONType(upsellIDs)

	if checkout.AllowCustomAmount && req.CustomAmount != nil && *req.CustomAmount > 0 {
		sale.Amount = *req.CustomAmount
	}

	checkoutURL := s.baseURL + "/checkout/" + url.PathEscape(checkout.Slug)
	ref, err := provider.CreateOrder(ctx, &payment.Order{
		Reference:   sale.ID,
		Description: product.Name,
		AmountCents: sale.Amount,
		Currency:    sale.Currency,
		ReturnURL:   checkoutURL + "?sale=" + sale.ID,
		CancelURL:   checkoutURL,
		Payer:       payment.Payer{Name: sale.CustomerName, Email: sale.CustomerEmail},
		Payee:       payee,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, apperror.Validation("paymentMethod", msgMethodUnavailable)
		}
		return nil, fmt.Errorf("create %s order: %w", method, err)
	}

	sale.ProviderOrderID = ref.ID
	if method == model.PaymentMethodPaypal {
		sale.PaypalOrderID = ref.ID
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("store sale: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SalesCreated.WithLabelValues(string(method)).Inc()
	}
	s.logger.Info("sale created", "sale_id", sale.ID, "checkout_id", checkout.ID, "method", method, "amount", sale.Amount)

	resp := &dto.PurchaseResponse{
		SaleID:        sale.ID,
		Amount:        sale.Amount,
		Currency:      sale.Currency,
		Status:        sale.Status,
		PaymentMethod: method,
		OrderID:       ref.ID,
		ApproveURL:    ref.ApproveURL,
	}
	if method == model.PaymentMethodPix {
		resp.Pix = &dto.PixInstructions{
			Key:          ref.PixKey,
			KeyType:      ref.PixKeyType,
			QRCode:       ref.QRCode,
			QRCodeBase64: ref.QRCodeBase64,
		}
	}
	return resp, nil
}

func requireCustomerFields(cfg *model.CheckoutConfig, req *dto.PurchaseRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return apperror.Validation("customerName", "Informe seu nome")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return apperror.Validation("customerEmail", "Informe seu e-mail")
	}
	if cfg.ShowPhone && strings.TrimSpace(req.CustomerPhone) == "" {
		return apperror.Validation("customerPhone", "Informe seu telefone")
	}
	if cfg.ShowCpf && strings.TrimSpace(req.CustomerCpf) == "" {
		return apperror.Validation("customerCpf", "Informe seu CPF")
	}
	return nil
}

// selectedExtras resolves the order bump and upsells the buyer chose,
// silently dropping anything the checkout does not offer or can no longer sell.
func (s *saleServiceImpl) selectedExtras(ctx context.Context, sellerID string, cfg *model.CheckoutConfig, req *dto.PurchaseRequest) ([]*model.Product, error) {
	var ids []string
	if req.OrderBump && cfg.OrderBumpProduct != nil {
		ids = append(ids, *cfg.OrderBumpProduct)
	}
	for _, id := range req.UpsellProductIDs {
		if cfg.HasUpsell(id) && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find extra products: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for _, p := range products {
		if p.Active && p.UserID == sellerID {
			byID[p.ID] = p
		}
	}

	out := make([]*model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *saleServiceImpl) List(ctx context.Context, userID string, query *dto.SaleListQuery) (*dto.SaleListResponse, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSalesLimit
	}
	if query.Offset < 0 {
		return nil, apperror.Validation("offset", "Offset inválido")
	}
	status := model.SaleStatus(query.Status)
	switch status {
	case "", model.SaleStatusPending, model.SaleStatusPaid, model.SaleStatusFailed:
	default:
		return nil, apperror.Validation("status", "Status inválido")
	}

	sales, total, err := s.saleRepo.List(ctx, repository.SaleFilter{
		UserID:    userID,
		ProductID: query.ProductID,
		Status:    status,
		Limit:     limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if sales == nil {
		sales = []*model.Sale{}
	}

	return &dto.SaleListResponse{
		Sales:  sales,
		Total:  total,
		Limit:  limit,
		Offset: query.Offset,
	}, nil
}

// UpdateStatus lets the seller settle a pending sale by hand, which is the
// only way a manual PIX sale becomes paid.
func (s *saleServiceImpl) UpdateStatus(ctx context.Context, userID, saleID string, status model.SaleStatus) (*model.Sale, error) {
	if status != model.SaleStatusPaid && status != model.SaleStatusFailed {
		return nil, apperror.Validation("status", "Status inválido")
	}
	current, err := s.saleRepo.FindOwned(ctx, userID, saleID)
	if err != nil {
		return nil, orNotFound(err, msgSaleNotFound)
	}

	sale, err := s.saleRepo.TransitionStatus(ctx, saleID, []model.SaleStatus{model.SaleStatusPending}, status)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, apperror.Validation("status", "Somente vendas pendentes podem ser alteradas")
		}
		return nil, fmt.Errorf("update sale status: %w", err)
	}

	if status == model.SaleStatusPaid && current.Status != model.SaleStatusPaid && s.metrics != nil {
		s.metrics.SalesPaid.WithLabelValues(string(sale.PaymentMethod)).Inc()
	}
	s.logger.Info("sale status updated", "sale_id", sale.ID, "status", sale.Status)
	return sale, nil
}
