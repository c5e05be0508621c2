package repository

import (
	"berrypay/internal/model"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*model.Settings, error)
	Upsert(ctx context.Context, settings *model.Settings, columns []string) (*model.Settings, error)
	FindByUser(ctx context.Context, userID string) (*model.Settings, error)
}

type settingsRepoImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepoImpl{
		db: db,
	}
}

// GetOrCreate inserts an empty row when the seller has none. The unique
// user_id index makes concurrent first reads converge on one row.
func (r *settingsRepoImpl) GetOrCreate(ctx context.Context, userID string) (*model.Settings, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.Settings{
		ID:     uuid.NewString(),
		UserID: userID,
	}).Error
	if err != nil {
		return nil, err
	}

	return r.FindByUser(ctx, userID)
}

// Upsert writes the given columns of settings, inserting the row if needed.
func (r *settingsRepoImpl) Upsert(ctx context.Context, settings *model.Settings, columns []string) (*model.Settings, error) {
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}

	assignments := make(map[string]interface{}, len(columns)+1)
	values := columnValues(settings)
	for _, col := range columns {
		assignments[col] = values[col]
	}
	assignments["updated_at"] = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(settings).Error
	if err != nil {
		return nil, err
	}

	return r.FindByUser(ctx, settings.UserID)
}

func (r *settingsRepoImpl) FindByUser(ctx context.Context, userID string) (*model.Settings, error) {
	var settings model.Settings
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

func columnValues(s *model.Settings) map[string]interface{} {
	return map[string]interface{}{
		"paypal_client_id":     s.PaypalClientID,
		"paypal_client_secret": s.PaypalClientSecret,
		"paypal_webhook_id":    s.PaypalWebhookID,
		"pix_key":              s.PixKey,
		"pix_key_type":         s.PixKeyType,
		"business_name":        s.BusinessName,
		"logo_url":             s.LogoURL,
		"primary_color":        s.PrimaryColor,
		"facebook_pixel":       s.FacebookPixel,
		"utmfy_token":          s.UtmfyToken,
	}
}
