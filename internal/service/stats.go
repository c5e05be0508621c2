package service

import (
	"context"
	"fmt"
	"time"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/model"
	"berrypay/internal/repository"

	"github.com/shopspring/decimal"
)

const DefaultStatsPeriod = "30d"

type StatsService interface {
	Get(ctx context.Context, userID string, query *dto.StatsQuery) (*dto.StatsResponse, error)
}

type statsServiceImpl struct {
	saleRepo     repository.SaleRepository
	checkoutRepo repository.CheckoutRepository
	now          func() time.Time
}

func NewStatsService(saleRepo repository.SaleRepository, checkoutRepo repository.CheckoutRepository, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsServiceImpl{
		saleRepo:     saleRepo,
		checkoutRepo: checkoutRepo,
		now:          now,
	}
}

// PeriodRange resolves a period code to a [from, to) window in the server's
// local time. "7d", "30d" and "90d" include today.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	switch period {
	case "today":
		return today, tomorrow, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today, nil
	case "7d":
		return today.AddDate(0, 0, -6), tomorrow, nil
	case "30d":
		return today.AddDate(0, 0, -29), tomorrow, nil
	case "90d":
		return today.AddDate(0, 0, -89), tomorrow, nil
	}
	return time.Time{}, time.Time{}, apperror.Validation("period", "Período inválido")
}

// Get aggregates the seller's sales inside the period. Views are lifetime
// totals of the matching checkouts since individual views carry no timestamp.
func (s *statsServiceImpl) Get(ctx context.Context, userID string, query *dto.StatsQuery) (*dto.StatsResponse, error) {
	period := query.Period
	if period == "" {
		period = DefaultStatsPeriod
	}
	from, to, err := PeriodRange(period, s.now())
	if err != nil {
		return nil, err
	}

	rows, err := s.saleRepo.Aggregate(ctx, repository.SaleFilter{
		UserID:    userID,
		ProductID: query.ProductID,
		From:      &from,
		To:        &to,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}

	resp := &dto.StatsResponse{
		Period: period,
		From:   from,
		To:     to,
	}
	for _, row := range rows {
		resp.TotalSales += row.Count
		switch row.Status {
		case model.SaleStatusPaid:
			resp.PaidSales = row.Count
			resp.Revenue = row.Total
		case model.SaleStatusPending:
			resp.PendingSales = row.Count
		}
	}
	if resp.PaidSales > 0 {
		resp.AverageTicket = resp.Revenue / resp.PaidSales
	}

	resp.Views, err = s.checkoutRepo.SumViews(ctx, userID, query.ProductID)
	if err != nil {
		return nil, fmt.Errorf("sum checkout views: %w", err)
	}
	if resp.Views > 0 {
		resp.ConversionRate = decimal.NewFromInt(resp.PaidSales).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(resp.Views)).
			Round(2).
			InexactFloat64()
	}

	return resp, nil
}
