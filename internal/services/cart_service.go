package services

import (
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ErrInvalidQuantity rejects non-positive quantities before any mutation.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartService handles business logic for the user's cart.
type CartService struct {
	cartRepo repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
	}
}

// GetCart returns the user's cart lines; a missing cart reads as empty.
func (s *CartService) GetCart(userID string) ([]models.CartItem, error) {
	return s.cartRepo.GetItems(userID)
}

// AddItem adds qty of a product to the cart, accumulating onto an
// existing line. No product-existence check happens here; a stale
// productID is caught later, at checkout pricing.
func (s *CartService) AddItem(userID, productID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	return s.cartRepo.AddItem(userID, productID, qty)
}

// RemoveItem removes a product from the cart. Removing a product that
// is not there succeeds without effect.
func (s *CartService) RemoveItem(userID, productID string) error {
	return s.cartRepo.RemoveItem(userID, productID)
}
