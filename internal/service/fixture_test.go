package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"berrypay/internal/dto"
	"berrypay/internal/logging"
	"berrypay/internal/metrics"
	"berrypay/internal/model"
	"berrypay/internal/payment"
	"berrypay/internal/repository"
	"berrypay/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	products  repository.ProductRepository
	checkouts repository.CheckoutRepository
	settings  repository.SettingsRepository
	sales     repository.SaleRepository
	cache     *memCache
	payments  *payment.Registry
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:        db,
		products:  repository.NewProductRepository(db),
		checkouts: repository.NewCheckoutRepository(db),
		settings:  repository.NewSettingsRepository(db),
		sales:     repository.NewSaleRepository(db),
		cache:     newMemCache(),
		payments:  payment.NewRegistry(payment.NewMockPaypal(), payment.NewManualPix()),
		metrics:   metrics.Registry("berrypay_test"),
	}
}

func (f *fixture) checkoutService() CheckoutService {
	return NewCheckoutService(CheckoutServiceDeps{
		CheckoutRepo: f.checkouts,
		ProductRepo:  f.products,
		SettingsRepo: f.settings,
		Payments:     f.payments,
		Cache:        f.cache,
		CacheTTL:     time.Minute,
		Metrics:      f.metrics,
		Currency:     "BRL",
		Logger:       logging.Discard(),
	})
}

func (f *fixture) saleService() SaleService {
	return NewSaleService(SaleServiceDeps{
		CheckoutRepo: f.checkouts,
		ProductRepo:  f.products,
		SettingsRepo: f.settings,
		SaleRepo:     f.sales,
		Payments:     f.payments,
		Metrics:      f.metrics,
		Currency:     "BRL",
		BaseURL:      "http://localhost:8080/",
		Logger:       logging.Discard(),
	})
}

func (f *fixture) paymentService() PaymentService {
	return NewPaymentService(f.sales, f.products, f.settings, f.payments, f.metrics, logging.Discard())
}

func (f *fixture) product(t *testing.T, userID, name string, price int64) *model.Product {
	t.Helper()
	p := &model.Product{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Price:         price,
		DeliveryURL:   "https://drive.example.com/" + name,
		DeliveryFiles: datatypes.NewJSONType([]model.DeliveryFile{}),
		Active:        true,
	}
	if err := f.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) checkout(t *testing.T, userID, productID, slug string, cfg *model.CheckoutConfig) *model.Checkout {
	t.Helper()
	req := &dto.CreateCheckoutRequest{ProductID: productID, Name: "Checkout " + slug, Slug: slug}
	if cfg != nil {
		raw, err := json.Marshal(cfg)
		if err != nil {
			t.Fatalf("marshal config: %v", err)
		}
		req.Config = raw
	}
	c, err := f.checkoutService().Create(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("create checkout: %v", err)
	}
	return c
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (m *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = b
	return nil
}

func (m *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	b, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
		m.deletes = append(m.deletes, k)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
