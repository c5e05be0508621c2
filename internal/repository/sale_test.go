package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"berrypay/internal/model"
	"berrypay/internal/testutil"

	"github.com/google/uuid"
)

func newSale(userID, productID string, amount int64, status model.SaleStatus, createdAt time.Time) *model.Sale {
	return &model.Sale{
		ID:            uuid.NewString(),
		UserID:        userID,
		CheckoutID:    "checkout-1",
		ProductID:     productID,
		Amount:        amount,
		Currency:      "BRL",
		Status:        status,
		PaymentMethod: model.PaymentMethodPix,
		CreatedAt:     createdAt,
	}
}

func TestSaleTransitionStatus(t *testing.T) {
	repo := NewSaleRepository(testutil.NewDB(t))
	ctx := context.Background()

	sale := newSale("seller", "p1", 1000, model.SaleStatusPending, time.Now())
	if err := repo.Create(ctx, sale); err != nil {
		t.Fatalf("create: %v", err)
	}

	paid, err := repo.TransitionStatus(ctx, sale.ID, []model.SaleStatus{model.SaleStatusPending}, model.SaleStatusPaid)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if paid.Status != model.SaleStatusPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}

	again, err := repo.TransitionStatus(ctx, sale.ID, []model.SaleStatus{model.SaleStatusPending}, model.SaleStatusPaid)
	if err != nil {
		t.Fatalf("repeated transition should be a no-op: %v", err)
	}
	if again.Status != model.SaleStatusPaid {
		t.Fatalf("expected paid, got %s", again.Status)
	}

	_, err = repo.TransitionStatus(ctx, sale.ID, []model.SaleStatus{model.SaleStatusPending}, model.SaleStatusFailed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestSaleAggregateWindowAndProduct(t *testing.T) {
	repo := NewSaleRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now()

	fixtures := []*model.Sale{
		newSale("seller", "p1", 1000, model.SaleStatusPaid, now.Add(-time.Hour)),
		newSale("seller", "p2", 2500, model.SaleStatusPaid, now.Add(-2*time.Hour)),
		newSale("seller", "p1", 700, model.SaleStatusPending, now.Add(-3*time.Hour)),
		newSale("seller", "p1", 9999, model.SaleStatusPaid, now.Add(-40*24*time.Hour)),
		newSale("other", "p1", 5000, model.SaleStatusPaid, now.Add(-time.Hour)),
	}
	for _, s := range fixtures {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from := now.Add(-30 * 24 * time.Hour)
	to := now.Add(time.Minute)
	rows, err := repo.Aggregate(ctx, SaleFilter{UserID: "seller", From: &from, To: &to})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	byStatus := map[model.SaleStatus]SaleAggregate{}
	for _, r := range rows {
		byStatus[r.Status] = r
	}
	if got := byStatus[model.SaleStatusPaid]; got.Count != 2 || got.Total != 3500 {
		t.Fatalf("unexpected paid aggregate %+v", got)
	}
	if got := byStatus[model.SaleStatusPending]; got.Count != 1 || got.Total != 700 {
		t.Fatalf("unexpected pending aggregate %+v", got)
	}

	rows, err = repo.Aggregate(ctx, SaleFilter{UserID: "seller", ProductID: "p2", From: &from, To: &to})
	if err != nil {
		t.Fatalf("aggregate by product: %v", err)
	}
	if len(rows) != 1 || rows[0].Total != 2500 {
		t.Fatalf("unexpected product aggregate %+v", rows)
	}
}

func TestSaleListPaginates(t *testing.T) {
	repo := NewSaleRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, newSale("seller", "p1", int64(100*(i+1)), model.SaleStatusPending, now.Add(-time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	sales, total, err := repo.List(ctx, SaleFilter{UserID: "seller", Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(sales) != 2 || sales[0].Amount != 200 {
		t.Fatalf("unexpected page %+v", sales)
	}
}
