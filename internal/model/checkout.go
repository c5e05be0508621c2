package model

import (
	"time"

	"gorm.io/datatypes"
)

type Checkout struct {
	ID                string                             `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID            string                             `gorm:"size:36;index;not null" json:"userId"`
	ProductID         string                             `gorm:"size:36;index;not null" json:"productId"`
	Slug              string                             `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Name              string                             `gorm:"size:255;not null" json:"name"`
	Description       string                             `gorm:"type:text" json:"description"`
	AllowCustomAmount bool                               `gorm:"not null;default:false" json:"allowCustomAmount"`
	Config            datatypes.JSONType[CheckoutConfig] `json:"config"`
	Active            bool                               `gorm:"not null" json:"active"`
	Views             int64                              `gorm:"not null;default:0" json:"views"`
	CreatedAt         time.Time                          `json:"createdAt"`
	UpdatedAt         time.Time                          `json:"updatedAt"`
}
