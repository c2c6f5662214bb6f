package services

import (
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderEventPublisher emits an event after an order is committed.
// Implemented by pkg/rabbitmq; may be nil when no broker is configured.
type OrderEventPublisher interface {
	PublishOrderCreated(order *models.Order) error
}

// OrderService handles checkout and order history.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// Checkout converts the user's cart into a durable order. The repository
// runs the whole conversion in one transaction, so on any error nothing
// has changed and the caller may safely retry.
func (s *OrderService) Checkout(userID string) (*models.Order, error) {
	order, err := s.orderRepo.CreateFromCart(userID)
	if err != nil {
		return nil, err
	}

	// Best-effort event after commit; a publish failure never undoes
	// the already-committed order.
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(order); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// GetOrdersByUser returns the user's order history with line items.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(userID)
}
