package models

import "time"

// Cart is a user's pending selection. Each user owns exactly one cart,
// created together with the user at signup.
type Cart struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// CartItem is one (cart, product) line. The composite unique index keeps
// a product on a single row; adding it again increments the quantity.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"-" gorm:"uniqueIndex:idx_cart_product;type:varchar(36);not null"`
	ProductID string    `json:"productId" gorm:"uniqueIndex:idx_cart_product;type:varchar(36);not null"`
	Quantity  int       `json:"qty" gorm:"not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
