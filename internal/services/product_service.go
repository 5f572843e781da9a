package services

import (
	"agrimarket/internal/models"
	"agrimarket/internal/repositories"
)

// ProductService handles business logic related to products. Mutations
// are restricted to the owning farmer; availability is derived from the
// quantity at the repository boundary.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product owned by the acting farmer.
func (s *ProductService) CreateProduct(p Principal, product *models.Product) error {
	if p.Role != models.RoleFarmer {
		return ErrUnauthorized
	}
	product.FarmerID = p.ID
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product; only its owning farmer may.
func (s *ProductService) UpdateProduct(p Principal, product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing.FarmerID != p.ID {
		return ErrUnauthorized
	}
	product.FarmerID = existing.FarmerID
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID; only its owning farmer may.
func (s *ProductService) DeleteProduct(p Principal, id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.FarmerID != p.ID {
		return ErrUnauthorized
	}
	return s.repo.Delete(id)
}
