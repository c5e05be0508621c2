package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/model"
)

type saleScenario struct {
	f        *fixture
	main     *model.Product
	bump     *model.Product
	upsell   *model.Product
	other    *model.Product
	checkout *model.Checkout
}

func newSaleScenario(t *testing.T, allowCustom bool) *saleScenario {
	t.Helper()
	f := newFixture(t)
	s := &saleScenario{
		f:      f,
		main:   f.product(t, "seller", "main", 1000),
		bump:   f.product(t, "seller", "bump", 300),
		upsell: f.product(t, "seller", "upsell", 200),
		other:  f.product(t, "seller", "other", 100),
	}

	cfg := model.DefaultCheckoutConfig()
	cfg.UpsellProducts = []string{s.upsell.ID}
	cfg.OrderBumpProduct = &s.bump.ID
	s.checkout = f.checkout(t, "seller", s.main.ID, "venda", &cfg)

	if allowCustom {
		if _, err := f.checkoutService().Update(context.Background(), "seller", s.checkout.ID, &dto.UpdateCheckoutRequest{AllowCustomAmount: ptr(true)}); err != nil {
			t.Fatalf("allow custom amount: %v", err)
		}
	}
	return s
}

func buyer(method string) *dto.PurchaseRequest {
	return &dto.PurchaseRequest{
		PaymentMethod: method,
		CustomerName:  "Ana Souza",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "+5511999999999",
	}
}

func TestPurchaseAmountCountsOnlyOfferedExtras(t *testing.T) {
	s := newSaleScenario(t, false)
	ctx := context.Background()

	req := buyer("paypal")
	req.OrderBump = true
	req.UpsellProductIDs = []string{s.upsell.ID, s.other.ID, s.upsell.ID}
	req.CustomAmount = ptr(int64(1))

	resp, err := s.f.saleService().Purchase(ctx, "venda", req)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if resp.Amount != 1000+300+200 {
		t.Fatalf("expected 1500, got %d", resp.Amount)
	}
	if !strings.HasPrefix(resp.OrderID, "MOCK-") || resp.Status != model.SaleStatusPending {
		t.Fatalf("unexpected response %+v", resp)
	}

	sale, err := s.f.sales.FindOwned(ctx, "seller", resp.SaleID)
	if err != nil {
		t.Fatalf("find sale: %v", err)
	}
	if !sale.OrderBump || sale.OrderBumpProduct != s.bump.ID {
		t.Fatalf("order bump not recorded: %+v", sale)
	}
	if !reflect.DeepEqual(sale.UpsellProductIDs.Data(), []string{s.upsell.ID}) {
		t.Fatalf("unexpected upsells %v", sale.UpsellProductIDs.Data())
	}
	if sale.PaypalOrderID != resp.OrderID || sale.ProviderOrderID != resp.OrderID {
		t.Fatalf("order ids not stored: %+v", sale)
	}
}

func TestPurchaseCustomAmountOnlyWhenAllowed(t *testing.T) {
	s := newSaleScenario(t, true)
	ctx := context.Background()

	req := buyer("paypal")
	req.CustomAmount = ptr(int64(777))
	resp, err := s.f.saleService().Purchase(ctx, "venda", req)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if resp.Amount != 777 {
		t.Fatalf("expected custom amount, got %d", resp.Amount)
	}

	req.CustomAmount = ptr(int64(-5))
	resp, err = s.f.saleService().Purchase(ctx, "venda", req)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if resp.Amount != 1000 {
		t.Fatalf("non-positive custom amount must fall back to the price, got %d", resp.Amount)
	}
}

func TestPurchaseRequiresConfiguredFields(t *testing.T) {
	s := newSaleScenario(t, false)
	req := buyer("paypal")
	req.CustomerPhone = ""

	_, err := s.f.saleService().Purchase(context.Background(), "venda", req)
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) || ve.Field != "customerPhone" {
		t.Fatalf("expected phone required, got %v", err)
	}
}

func TestPurchasePixRequiresSellerKey(t *testing.T) {
	s := newSaleScenario(t, false)
	ctx := context.Background()
	svc := s.f.saleService()

	_, err := svc.Purchase(ctx, "venda", buyer("pix"))
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) || ve.Field != "paymentMethod" {
		t.Fatalf("expected pix unavailable, got %v", err)
	}

	if _, err := NewSettingsService(s.f.settings).Save(ctx, "seller", &dto.SettingsRequest{PixKey: ptr("12345678900"), PixKeyType: ptr("cpf")}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	resp, err := svc.Purchase(ctx, "venda", buyer("pix"))
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if resp.Pix == nil || resp.Pix.Key != "12345678900" || resp.Pix.KeyType != "cpf" {
		t.Fatalf("expected pix instructions, got %+v", resp.Pix)
	}
}

func TestPurchaseUnknownCheckout(t *testing.T) {
	s := newSaleScenario(t, false)
	if _, err := s.f.saleService().Purchase(context.Background(), "nope", buyer("paypal")); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCapturePaypalMarksPaidAndDelivers(t *testing.T) {
	s := newSaleScenario(t, false)
	ctx := context.Background()

	req := buyer("paypal")
	req.OrderBump = true
	req.UpsellProductIDs = []string{s.upsell.ID}
	order, err := s.f.saleService().Purchase(ctx, "venda", req)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	payments := s.f.paymentService()
	for i := 0; i < 2; i++ {
		resp, err := payments.CaptureOrder(ctx, model.PaymentMethodPaypal, order.OrderID)
		if err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
		if resp.Status != model.SaleStatusPaid {
			t.Fatalf("capture %d: expected paid, got %s", i, resp.Status)
		}
		var ids []string
		for _, d := range resp.Deliveries {
			ids = append(ids, d.ProductID)
		}
		if !reflect.DeepEqual(ids, []string{s.main.ID, s.bump.ID, s.upsell.ID}) {
			t.Fatalf("capture %d: unexpected deliveries %v", i, ids)
		}
		if resp.Deliveries[0].URL != s.main.DeliveryURL {
			t.Fatalf("delivery url missing: %+v", resp.Deliveries[0])
		}
	}

	if _, err := payments.CaptureOrder(ctx, model.PaymentMethodPaypal, "MOCK-UNKNOWN"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found for unknown order, got %v", err)
	}
}

func TestManualPixStaysPendingUntilSellerConfirms(t *testing.T) {
	s := newSaleScenario(t, false)
	ctx := context.Background()
	if _, err := NewSettingsService(s.f.settings).Save(ctx, "seller", &dto.SettingsRequest{PixKey: ptr("pix@seller.com"), PixKeyType: ptr("email")}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	order, err := s.f.saleService().Purchase(ctx, "venda", buyer("pix"))
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	resp, err := s.f.paymentService().CaptureOrder(ctx, model.PaymentMethodPix, order.OrderID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if resp.Status != model.SaleStatusPending || len(resp.Deliveries) != 0 {
		t.Fatalf("manual pix must stay pending without delivery, got %+v", resp)
	}

	svc := s.f.saleService()
	if _, err := svc.UpdateStatus(ctx, "intruder", order.SaleID, model.SaleStatusPaid); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found for another seller, got %v", err)
	}
	sale, err := svc.UpdateStatus(ctx, "seller", order.SaleID, model.SaleStatusPaid)
	if err != nil || sale.Status != model.SaleStatusPaid {
		t.Fatalf("expected paid, got %+v err=%v", sale, err)
	}
	var ve *apperror.ValidationError
	if _, err := svc.UpdateStatus(ctx, "seller", order.SaleID, model.SaleStatusFailed); !errors.As(err, &ve) {
		t.Fatalf("paid sales cannot be failed, got %v", err)
	}

	resp, err = s.f.paymentService().CaptureOrder(ctx, model.PaymentMethodPix, order.OrderID)
	if err != nil || resp.Status != model.SaleStatusPaid || len(resp.Deliveries) != 1 {
		t.Fatalf("confirmed sale should deliver, got %+v err=%v", resp, err)
	}
}

func TestListSales(t *testing.T) {
	s := newSaleScenario(t, false)
	ctx := context.Background()
	svc := s.f.saleService()

	var first string
	for i := 0; i < 3; i++ {
		resp, err := svc.Purchase(ctx, "venda", buyer("paypal"))
		if err != nil {
			t.Fatalf("purchase %d: %v", i, err)
		}
		if i == 0 {
			first = resp.SaleID
		}
	}
	if _, err := svc.UpdateStatus(ctx, "seller", first, model.SaleStatusFailed); err != nil {
		t.Fatalf("fail sale: %v", err)
	}

	all, err := svc.List(ctx, "seller", &dto.SaleListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 3 || len(all.Sales) != 3 || all.Limit != defaultSalesLimit {
		t.Fatalf("unexpected list %+v", all)
	}

	pending, err := svc.List(ctx, "seller", &dto.SaleListQuery{Status: "pending", Limit: 1})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if pending.Total != 2 || len(pending.Sales) != 1 {
		t.Fatalf("expected 2 pending with page of 1, got total=%d len=%d", pending.Total, len(pending.Sales))
	}

	none, err := svc.List(ctx, "someone-else", &dto.SaleListQuery{})
	if err != nil || none.Total != 0 || none.Sales == nil {
		t.Fatalf("expected empty non-nil list, got %+v err=%v", none, err)
	}

	if _, err := svc.List(ctx, "seller", &dto.SaleListQuery{Status: "captured"}); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}
