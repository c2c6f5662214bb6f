package models

import "time"

// Product represents a catalog item. Prices are stored in integer
// minor currency units (cents) to keep arithmetic exact.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	PriceCents  int64     `json:"price_cents" gorm:"not null"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}
