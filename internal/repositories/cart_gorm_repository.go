package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

func (r *GORMCartRepository) cartByUser(tx *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartMissing
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetItems returns all line items of the user's cart.
func (r *GORMCartRepository) GetItems(userID string) ([]models.CartItem, error) {
	cart, err := r.cartByUser(r.db, userID)
	if err != nil {
		if errors.Is(err, ErrCartMissing) {
			// A user without a cart row simply has nothing in it.
			return []models.CartItem{}, nil
		}
		return nil, err
	}

	items := []models.CartItem{}
	if err := r.db.Order("created_at asc").Find(&items, "cart_id = ?", cart.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return items, nil
}

// AddItem upserts a cart line, incrementing the quantity when the
// (cart, product) pair already exists.
func (r *GORMCartRepository) AddItem(userID, productID string, qty int) error {
	cart, err := r.cartByUser(r.db, userID)
	if err != nil {
		return err
	}

	item := models.CartItem{
		ID:        uuid.New().String(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  qty,
	}
	err = r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", qty),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// RemoveItem deletes the line for (user's cart, product) if present.
func (r *GORMCartRepository) RemoveItem(userID, productID string) error {
	cart, err := r.cartByUser(r.db, userID)
	if err != nil {
		if errors.Is(err, ErrCartMissing) {
			return nil
		}
		return err
	}

	res := r.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	// RowsAffected == 0 means the product was not in the cart; removal is idempotent.
	return nil
}
