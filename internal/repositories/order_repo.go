package repositories

import "storefront/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateFromCart converts the user's current cart into an immutable
	// order in a single transaction, or fails leaving all state unchanged.
	CreateFromCart(userID string) (*models.Order, error)
	// GetAllByUser returns the user's orders with their line items,
	// newest first.
	GetAllByUser(userID string) ([]models.Order, error)
}
