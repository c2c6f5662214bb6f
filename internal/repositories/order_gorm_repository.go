package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// lockForUpdate takes an exclusive row lock where the dialect supports
// it. SQLite, used in tests, has a single-writer lock instead of FOR
// UPDATE syntax, so the clause is omitted there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateFromCart runs the whole checkout inside one transaction:
// lock the cart row, snapshot its items against current catalog prices,
// write the order with its lines, and empty the cart. Any error rolls
// the transaction back, so no partial order is ever visible.
func (r *GORMOrderRepository) CreateFromCart(userID string) (*models.Order, error) {
	var order *models.Order

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// The exclusive lock on the cart row serializes concurrent
		// checkouts by the same user; different users never contend.
		var cart models.Cart
		if err := lockForUpdate(tx).
			First(&cart, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartMissing
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Order("created_at asc").Find(&items, "cart_id = ?", cart.ID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		productIDs := make([]string, 0, len(items))
		for _, it := range items {
			productIDs = append(productIDs, it.ProductID)
		}
		var products []models.Product
		if err := tx.Find(&products, "id IN ?", productIDs).Error; err != nil {
			return err
		}
		byID := make(map[string]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		orderID := uuid.New().String()
		lines := make([]models.OrderItem, 0, len(items))
		var total int64
		for _, it := range items {
			product, ok := byID[it.ProductID]
			if !ok {
				// Product deleted since it was added to the cart.
				return ErrProductUnavailable
			}
			subtotal := int64(it.Quantity) * product.PriceCents
			lines = append(lines, models.OrderItem{
				ID:            uuid.New().String(),
				OrderID:       orderID,
				ProductID:     product.ID,
				ProductName:   product.Name,
				Quantity:      it.Quantity,
				PriceCents:    product.PriceCents,
				SubtotalCents: subtotal,
			})
			total += subtotal
		}

		o := &models.Order{
			ID:         orderID,
			UserID:     userID,
			TotalCents: total,
			Items:      lines,
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartMissing) || errors.Is(err, ErrCartEmpty) || errors.Is(err, ErrProductUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("checkout transaction failed: %w", err)
	}
	return order, nil
}

// GetAllByUser retrieves the user's orders with their line items.
func (r *GORMOrderRepository) GetAllByUser(userID string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}
