package repository

import (
	"berrypay/internal/model"
	"context"

	"gorm.io/gorm"
)

type CheckoutRepository interface {
	Create(ctx context.Context, checkout *model.Checkout) error
	Update(ctx context.Context, checkout *model.Checkout) error
	FindOwned(ctx context.Context, userID, checkoutID string) (*model.Checkout, error)
	FindBySlug(ctx context.Context, slug string) (*model.Checkout, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Checkout, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementViews(ctx context.Context, checkoutID string) error
	SumViews(ctx context.Context, userID, productID string) (int64, error)
}

type checkoutRepoImpl struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepoImpl{
		db: db,
	}
}

func (r *checkoutRepoImpl) Create(ctx context.Context, checkout *model.Checkout) error {
	return r.db.WithContext(ctx).Create(checkout).Error
}

// Update writes every column except the view counter, which only
// IncrementViews touches.
func (r *checkoutRepoImpl) Update(ctx context.Context, checkout *model.Checkout) error {
	return r.db.WithContext(ctx).
		Select("*").
		Omit("views", "created_at").
		Where("id = ? AND user_id = ?", checkout.ID, checkout.UserID).
		Updates(checkout).Error
}

func (r *checkoutRepoImpl) FindOwned(ctx context.Context, userID, checkoutID string) (*model.Checkout, error) {
	var checkout model.Checkout
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", checkoutID, userID).
		First(&checkout).Error
	if err != nil {
		return nil, err
	}

	return &checkout, nil
}

func (r *checkoutRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Checkout, error) {
	var checkout model.Checkout
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&checkout).Error
	if err != nil {
		return nil, err
	}

	return &checkout, nil
}

func (r *checkoutRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Checkout, error) {
	var checkouts []*model.Checkout
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&checkouts).Error
	if err != nil {
		return nil, err
	}

	return checkouts, nil
}

func (r *checkoutRepoImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Checkout{}).
		Where("slug = ?", slug).
		Count(&count).Error

	return count > 0, err
}

func (r *checkoutRepoImpl) IncrementViews(ctx context.Context, checkoutID string) error {
	return r.db.WithContext(ctx).Model(&model.Checkout{}).
		Where("id = ?", checkoutID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// SumViews totals views across the seller's checkouts, optionally only those
// selling productID.
func (r *checkoutRepoImpl) SumViews(ctx context.Context, userID, productID string) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&model.Checkout{}).
		Where("user_id = ?", userID)
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	err := query.Select("COALESCE(SUM(views), 0)").Scan(&total).Error
	return total, err
}
