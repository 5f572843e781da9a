package repositories

import (
	"sync"

	"agrimarket/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. Its mutex doubles as the inventory ledger's
// serialization point for MockOrderRepository, so the check-then-
// decrement sequence is atomic without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product. Availability is derived from the quantity.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.IsAvailable = product.Quantity > 0
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	product.IsAvailable = product.Quantity > 0
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// reserveAll checks and decrements stock for every line under one lock.
// Nothing is decremented unless every line fits, mirroring the
// all-or-nothing transaction of the GORM repository.
func (r *MockProductRepository) reserveAll(lines []NewOrderLine) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check against the running reservation, not the starting quantity,
	// so duplicate lines for one product cannot jointly overdraw it.
	reserved := make(map[string]int, len(lines))
	resolved := make([]models.Product, 0, len(lines))
	for _, line := range lines {
		product, ok := r.products[line.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		remaining := product.Quantity - reserved[line.ProductID]
		if remaining < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID:    product.ID,
				ProductTitle: product.Title,
				Requested:    line.Quantity,
				Available:    remaining,
			}
		}
		reserved[line.ProductID] += line.Quantity
		resolved = append(resolved, product)
	}

	for i, line := range lines {
		product := r.products[line.ProductID]
		product.Quantity -= line.Quantity
		product.IsAvailable = product.Quantity > 0
		r.products[line.ProductID] = product
		resolved[i] = product
	}
	return resolved, nil
}

// releaseAll returns quantities to stock under one lock; availability is
// restored unconditionally, as in the GORM ledger.
func (r *MockProductRepository) releaseAll(items []models.OrderItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		product, ok := r.products[item.ProductID]
		if !ok {
			continue
		}
		product.Quantity += item.Quantity
		product.IsAvailable = true
		r.products[item.ProductID] = product
	}
}
