package model

import (
	"time"

	"gorm.io/datatypes"
)

type SaleStatus string

const (
	SaleStatusPending SaleStatus = "pending"
	SaleStatusPaid    SaleStatus = "paid"
	SaleStatusFailed  SaleStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

type Sale struct {
	ID               string                       `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID           string                       `gorm:"size:36;index;not null" json:"userId"` // seller
	CheckoutID       string                       `gorm:"size:36;index;not null" json:"checkoutId"`
	ProductID        string                       `gorm:"size:36;index;not null" json:"productId"`
	Amount           int64                        `gorm:"not null" json:"amount"` // cents
	Currency         string                       `gorm:"size:8;not null" json:"currency"`
	Status           SaleStatus                   `gorm:"size:16;index;not null" json:"status"`
	PaymentMethod    PaymentMethod                `gorm:"size:16;not null" json:"paymentMethod"`
	CustomerName     string                       `gorm:"size:255" json:"customerName"`
	CustomerEmail    string                       `gorm:"size:255" json:"customerEmail"`
	CustomerPhone    string                       `gorm:"size:32" json:"customerPhone"`
	CustomerCpf      string                       `gorm:"size:14" json:"customerCpf"`
	OrderBump        bool                         `gorm:"not null;default:false" json:"orderBump"`
	OrderBumpProduct string                       `gorm:"size:36" json:"orderBumpProductId,omitempty"`
	UpsellProductIDs datatypes.JSONType[[]string] `json:"upsellProductIds"`
	ProviderOrderID  string                       `gorm:"size:128;index" json:"providerOrderId"`
	PaypalOrderID    string                       `gorm:"size:128;index" json:"paypalOrderId,omitempty"`
	CreatedAt        time.Time                    `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time                    `json:"updatedAt"`
}
