package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session backs the signed session cookie; deleting the row revokes the cookie.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36;not null"`
	UserID    string    `gorm:"size:36;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
