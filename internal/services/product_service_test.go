package services_test

import (
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expected := []models.Product{
		{ID: "prod-1", Name: "Keyboard", PriceCents: 7500},
		{ID: "prod-2", Name: "Mouse", PriceCents: 2500},
	}

	mockRepo.On("GetAll").Return(expected, nil).Once()

	products, err := service.GetAllProducts()
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)

	// Storage failures surface unchanged
	mockRepo.On("GetAll").Return([]models.Product{}, fmt.Errorf("database error")).Once()
	_, err = service.GetAllProducts()
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expected := &models.Product{ID: "prod-1", Name: "Keyboard", PriceCents: 7500}

	mockRepo.On("GetByID", "prod-1").Return(expected, nil).Once()
	product, err := service.GetProductByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("GetByID", "missing").Return(nil, repositories.ErrProductUnavailable).Once()
	_, err = service.GetProductByID("missing")
	assert.ErrorIs(t, err, repositories.ErrProductUnavailable)
	mockRepo.AssertExpectations(t)
}
