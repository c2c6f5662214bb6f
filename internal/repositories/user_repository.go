package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// CreateWithCart persists a new user and their empty cart atomically.
	// An orphan user without a cart must never exist.
	CreateWithCart(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
