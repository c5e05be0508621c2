package model

import (
	"time"

	"gorm.io/datatypes"
)

type DeliveryFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Product struct {
	ID            string                             `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID        string                             `gorm:"size:36;index;not null" json:"userId"`
	Name          string                             `gorm:"size:255;not null" json:"name"`
	Description   string                             `gorm:"type:text" json:"description"`
	Price         int64                              `gorm:"not null" json:"price"` // cents
	ImageURL      string                             `gorm:"size:1024" json:"imageUrl"`
	DeliveryURL   string                             `gorm:"size:1024" json:"deliveryUrl"`
	WhatsappURL   string                             `gorm:"size:1024" json:"whatsappUrl"`
	DeliveryFiles datatypes.JSONType[[]DeliveryFile] `json:"deliveryFiles"`
	Active        bool                               `gorm:"not null" json:"active"`
	CreatedAt     time.Time                          `json:"createdAt"`
	UpdatedAt     time.Time                          `json:"updatedAt"`
}

// Delivery is what a buyer receives once a sale is paid.
type Delivery struct {
	URL         string         `json:"url,omitempty"`
	WhatsappURL string         `json:"whatsappUrl,omitempty"`
	Files       []DeliveryFile `json:"files"`
}

func (p *Product) Delivery() Delivery {
	files := p.DeliveryFiles.Data()
	if files == nil {
		files = []DeliveryFile{}
	}
	return Delivery{
		URL:         p.DeliveryURL,
		WhatsappURL: p.WhatsappURL,
		Files:       files,
	}
}
