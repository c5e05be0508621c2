package repository

import (
	"berrypay/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type SaleFilter struct {
	UserID    string
	ProductID string
	Status    model.SaleStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type SaleAggregate struct {
	Status model.SaleStatus
	Count  int64
	Total  int64
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByProviderOrderID(ctx context.Context, method model.PaymentMethod, orderID string) (*model.Sale, error)
	FindOwned(ctx context.Context, userID, saleID string) (*model.Sale, error)
	TransitionStatus(ctx context.Context, saleID string, from []model.SaleStatus, to model.SaleStatus) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*model.Sale, int64, error)
	Aggregate(ctx context.Context, filter SaleFilter) ([]SaleAggregate, error)
}

type saleRepoImpl struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepoImpl{
		db: db,
	}
}

func (r *saleRepoImpl) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepoImpl) FindByProviderOrderID(ctx context.Context, method model.PaymentMethod, orderID string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Where("payment_method = ? AND provider_order_id = ?", method, orderID).
		First(&sale).Error

	if err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepoImpl) FindOwned(ctx context.Context, userID, saleID string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", saleID, userID).
		First(&sale).Error

	if err != nil {
		return nil, err
	}

	return &sale, nil
}

// TransitionStatus moves a sale to status `to` only if its current status is
// one of from. A sale already in `to` is returned unchanged, so repeated
// captures are harmless.
func (r *saleRepoImpl) TransitionStatus(ctx context.Context, saleID string, from []model.SaleStatus, to model.SaleStatus) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", saleID).First(&sale).Error; err != nil {
			return err
		}
		if sale.Status == to {
			return nil
		}

		result := tx.Model(&model.Sale{}).
			Where("id = ? AND status IN ?", saleID, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		// Fetch the updated record within the same transaction
		return tx.Where("id = ?", saleID).First(&sale).Error
	})
	if err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepoImpl) List(ctx context.Context, filter SaleFilter) ([]*model.Sale, int64, error) {
	var (
		sales []*model.Sale
		total int64
	)

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(ctx, filter)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	err := query.Order("created_at DESC").Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// Aggregate counts and sums sale amounts per status within the filter.
func (r *saleRepoImpl) Aggregate(ctx context.Context, filter SaleFilter) ([]SaleAggregate, error) {
	var rows []SaleAggregate
	err := r.filtered(ctx, filter).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *saleRepoImpl) filtered(ctx context.Context, filter SaleFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("user_id = ?", filter.UserID)

	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	return query
}
