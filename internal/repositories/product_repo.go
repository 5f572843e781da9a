package repositories

import (
	"agrimarket/internal/models"
)

// ProductRepository defines the interface for product data access.
// Stock reservation and release are not exposed here: they only exist
// inside an order transaction (see OrderRepository).
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
