package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetItems returns the line items of the user's cart. A missing cart
	// row yields an empty list, not an error.
	GetItems(userID string) ([]models.CartItem, error)
	// AddItem inserts a (cart, product) line or increments its quantity
	// if one already exists.
	AddItem(userID, productID string, qty int) error
	// RemoveItem deletes the matching line. Removing a product that is
	// not in the cart is a no-op.
	RemoveItem(userID, productID string) error
}
