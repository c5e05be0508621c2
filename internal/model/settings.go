package model

import "time"

// Settings holds one seller's payment credentials, branding and tracking tokens.
type Settings struct {
	ID     string `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex;not null" json:"userId"`

	PaypalClientID     string `gorm:"size:255" json:"paypalClientId"`
	PaypalClientSecret string `gorm:"size:255" json:"-"`
	PaypalWebhookID    string `gorm:"size:255" json:"paypalWebhookId"`
	PixKey             string `gorm:"size:255" json:"pixKey"`
	PixKeyType         string `gorm:"size:16" json:"pixKeyType"` // cpf, cnpj, email, phone, random

	BusinessName string `gorm:"size:255" json:"businessName"`
	LogoURL      string `gorm:"size:1024" json:"logoUrl"`
	PrimaryColor string `gorm:"size:16" json:"primaryColor"`

	FacebookPixel string `gorm:"size:255" json:"facebookPixel"`
	UtmfyToken    string `gorm:"size:255" json:"utmfyToken"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Settings) PaypalConfigured() bool {
	return s.PaypalClientID != "" && s.PaypalClientSecret != ""
}

func (s *Settings) PixConfigured() bool {
	return s.PixKey != ""
}
