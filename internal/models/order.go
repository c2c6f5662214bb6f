package models

import "time"

// OrderItem is an immutable order line. Name and price are denormalized
// snapshots taken at checkout, so later catalog changes never touch them.
type OrderItem struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string `json:"-" gorm:"index;type:varchar(36);not null"`
	ProductID     string `json:"product_id" gorm:"type:varchar(36);not null"`
	ProductName   string `json:"product_name" gorm:"type:varchar(100);not null"`
	Quantity      int    `json:"qty" gorm:"not null"`
	PriceCents    int64  `json:"price_cents" gorm:"not null"`
	SubtotalCents int64  `json:"subtotal_cents" gorm:"not null"`
}

// Order is the immutable result of a checkout. TotalCents always equals
// the sum of its line subtotals.
type Order struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string      `json:"user_id" gorm:"index;type:varchar(36);not null"`
	TotalCents int64       `json:"total_cents" gorm:"not null"`
	Items      []OrderItem `json:"line_items" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time   `json:"created_at"`
}
