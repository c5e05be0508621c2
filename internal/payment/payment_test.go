package payment

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"berrypay/internal/client"
	"berrypay/internal/config"
	"berrypay/internal/model"
)

type fakePaypalClient struct {
	cfg           *config.Paypal
	captureStatus string
	created       *client.CreateOrderRequest
}

func (f *fakePaypalClient) CreateOrder(_ context.Context, req *client.CreateOrderRequest) (*client.CreateOrderResponse, error) {
	f.created = req
	return &client.CreateOrderResponse{OrderID: "PP-1", ApproveURL: "https://paypal/approve/PP-1"}, nil
}

func (f *fakePaypalClient) CaptureOrder(_ context.Context, orderID string) (*client.CaptureOrderResponse, error) {
	return &client.CaptureOrderResponse{OrderID: orderID, Status: f.captureStatus}, nil
}

type fakeMercadoPago struct {
	status string
	req    *client.PixPaymentRequest
}

func (f *fakeMercadoPago) CreatePixPayment(_ context.Context, req *client.PixPaymentRequest) (*client.PixPayment, error) {
	f.req = req
	return &client.PixPayment{PaymentID: "123", Status: "pending", QRCode: "000201", QRCodeBase64: "iVBOR"}, nil
}

func (f *fakeMercadoPago) GetPaymentStatus(context.Context, string) (string, error) {
	return f.status, nil
}

func TestMockPaypal(t *testing.T) {
	p := NewMockPaypal()
	ref, err := p.CreateOrder(context.Background(), &Order{Reference: "sale-1", AmountCents: 1000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(ref.ID, "MOCK-") {
		t.Fatalf("expected MOCK- id, got %q", ref.ID)
	}

	status, err := p.CaptureOrder(context.Background(), ref.ID, Payee{})
	if err != nil || status != StatusCompleted {
		t.Fatalf("expected completed capture, got %q err=%v", status, err)
	}
}

func TestLivePaypalUsesSellerCredentials(t *testing.T) {
	fake := &fakePaypalClient{captureStatus: "COMPLETED"}
	p := NewLivePaypal(config.Paypal{ClientID: "platform", ClientSecret: "platform-secret"}, func(cfg *config.Paypal) client.PaypalClient {
		fake.cfg = cfg
		return fake
	})

	payee := Payee{PaypalClientID: "seller", PaypalClientSecret: "seller-secret"}
	ref, err := p.CreateOrder(context.Background(), &Order{Reference: "sale-1", AmountCents: 4990, Currency: "BRL", Payee: payee})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ref.ID != "PP-1" || ref.ApproveURL == "" {
		t.Fatalf("unexpected ref %+v", ref)
	}
	if fake.cfg.ClientID != "seller" || fake.created.AmountCents != 4990 {
		t.Fatalf("seller credentials or amount not forwarded: cfg=%+v req=%+v", fake.cfg, fake.created)
	}

	status, err := p.CaptureOrder(context.Background(), "PP-1", Payee{})
	if err != nil || status != StatusCompleted {
		t.Fatalf("expected completed, got %q err=%v", status, err)
	}
	if fake.cfg.ClientID != "platform" {
		t.Fatalf("expected fallback to platform credentials, got %q", fake.cfg.ClientID)
	}
}

func TestLivePaypalCaptureStatuses(t *testing.T) {
	cases := map[string]Status{
		"COMPLETED":           StatusCompleted,
		"DECLINED":            StatusFailed,
		"VOIDED":              StatusFailed,
		"PAYER_ACTION_NEEDED": StatusPending,
	}
	for remote, want := range cases {
		fake := &fakePaypalClient{captureStatus: remote}
		p := NewLivePaypal(config.Paypal{ClientID: "id", ClientSecret: "secret"}, func(*config.Paypal) client.PaypalClient { return fake })
		got, err := p.CaptureOrder(context.Background(), "PP-1", Payee{})
		if err != nil || got != want {
			t.Errorf("%s: got %q err=%v, want %q", remote, got, err, want)
		}
	}
}

func TestLivePaypalWithoutCredentials(t *testing.T) {
	p := NewLivePaypal(config.Paypal{}, nil)
	if p.Enabled(Payee{}) {
		t.Fatal("expected paypal disabled without credentials")
	}
	if _, err := p.CreateOrder(context.Background(), &Order{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestManualPix(t *testing.T) {
	p := NewManualPix()
	if p.Enabled(Payee{}) {
		t.Fatal("pix must be disabled without a key")
	}
	if _, err := p.CreateOrder(context.Background(), &Order{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	ref, err := p.CreateOrder(context.Background(), &Order{Payee: Payee{PixKey: "seller@pix.com", PixKeyType: "email"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ref.PixKey != "seller@pix.com" || ref.PixKeyType != "email" || !strings.HasPrefix(ref.ID, "PIX-") {
		t.Fatalf("unexpected ref %+v", ref)
	}

	status, _ := p.CaptureOrder(context.Background(), ref.ID, Payee{})
	if status != StatusPending {
		t.Fatalf("manual pix never confirms automatically, got %q", status)
	}
}

func TestMercadoPagoPix(t *testing.T) {
	mp := &fakeMercadoPago{status: "approved"}
	p := NewMercadoPagoPix(mp)

	ref, err := p.CreateOrder(context.Background(), &Order{
		Reference:   "sale-1",
		AmountCents: 2500,
		Payer:       Payer{Name: "Ana Souza", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ref.ID != "123" || ref.QRCode == "" {
		t.Fatalf("unexpected ref %+v", ref)
	}
	if mp.req.PayerFirstName != "Ana" || mp.req.ExternalReference != "sale-1" {
		t.Fatalf("unexpected request %+v", mp.req)
	}

	for remote, want := range map[string]Status{"approved": StatusCompleted, "rejected": StatusFailed, "in_process": StatusPending} {
		mp.status = remote
		got, err := p.CaptureOrder(context.Background(), "123", Payee{})
		if err != nil || got != want {
			t.Errorf("%s: got %q err=%v, want %q", remote, got, err, want)
		}
	}
}

func TestRegistryEnabledMethods(t *testing.T) {
	r := NewRegistry(NewMockPaypal(), NewManualPix())

	if got := r.EnabledMethods(Payee{}); !reflect.DeepEqual(got, []model.PaymentMethod{model.PaymentMethodPaypal}) {
		t.Fatalf("unexpected methods %v", got)
	}
	got := r.EnabledMethods(Payee{PixKey: "k"})
	if !reflect.DeepEqual(got, []model.PaymentMethod{model.PaymentMethodPaypal, model.PaymentMethodPix}) {
		t.Fatalf("unexpected methods %v", got)
	}
	if _, ok := r.Get(model.PaymentMethodPix); !ok {
		t.Fatal("expected pix provider")
	}
}
