package service

import (
	"context"
	"fmt"

	"berrypay/internal/dto"
	"berrypay/internal/model"
	"berrypay/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context, userID string) (*dto.SettingsResponse, error)
	Save(ctx context.Context, userID string, req *dto.SettingsRequest) (*dto.SettingsResponse, error)
}

type settingsServiceImpl struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsServiceImpl{
		settingsRepo: settingsRepo,
	}
}

// Get returns the seller's settings, creating an empty row on first access.
func (s *settingsServiceImpl) Get(ctx context.Context, userID string) (*dto.SettingsResponse, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create settings: %w", err)
	}
	return settingsResponse(settings), nil
}

// Save writes only the fields present in req. Absent fields keep their
// stored value.
func (s *settingsServiceImpl) Save(ctx context.Context, userID string, req *dto.SettingsRequest) (*dto.SettingsResponse, error) {
	settings := &model.Settings{UserID: userID}
	var columns []string

	set := func(column string, src *string, dst *string) {
		if src != nil {
			*dst = *src
			columns = append(columns, column)
		}
	}
	set("paypal_client_id", req.PaypalClientID, &settings.PaypalClientID)
	set("paypal_client_secret", req.PaypalClientSecret, &settings.PaypalClientSecret)
	set("paypal_webhook_id", req.PaypalWebhookID, &settings.PaypalWebhookID)
	set("pix_key", req.PixKey, &settings.PixKey)
	set("pix_key_type", req.PixKeyType, &settings.PixKeyType)
	set("business_name", req.BusinessName, &settings.BusinessName)
	set("logo_url", req.LogoURL, &settings.LogoURL)
	set("primary_color", req.PrimaryColor, &settings.PrimaryColor)
	set("facebook_pixel", req.FacebookPixel, &settings.FacebookPixel)
	set("utmfy_token", req.UtmfyToken, &settings.UtmfyToken)

	if len(columns) == 0 {
		return s.Get(ctx, userID)
	}

	saved, err := s.settingsRepo.Upsert(ctx, settings, columns)
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return settingsResponse(saved), nil
}

func settingsResponse(settings *model.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		Settings:              settings,
		PaypalClientSecretSet: settings.PaypalClientSecret != "",
	}
}
