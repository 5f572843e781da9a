package services_test

import (
	"testing"

	"agrimarket/internal/models"
	"agrimarket/internal/repositories"
	"agrimarket/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepo is a mock implementation of repositories.ProductRepository
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepo) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepo) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepo)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: "1", Title: "Tomatoes", Price: decimal.NewFromFloat(10.0), Quantity: 100, FarmerID: farmer.ID},
		{ID: "2", Title: "Carrots", Price: decimal.NewFromFloat(20.0), Quantity: 50, FarmerID: farmer.ID},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepo)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: "1", Title: "Tomatoes", Price: decimal.NewFromFloat(10.0), Quantity: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", "99").Return(nil, repositories.ErrProductNotFound).Once()
	product, err = service.GetProductByID("99")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	service := services.NewProductService(mockRepo)

	newProduct := &models.Product{Title: "Potatoes", Price: decimal.NewFromFloat(50.0), Quantity: 20}

	// Only farmers create products, and the product is stamped with
	// the acting farmer's id.
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(farmer, newProduct)
	assert.NoError(t, err)
	assert.Equal(t, farmer.ID, newProduct.FarmerID)
	mockRepo.AssertExpectations(t)

	// A buyer is denied before the repository is touched.
	err = service.CreateProduct(buyer, &models.Product{Title: "Nope", Price: decimal.NewFromFloat(1.0)})
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	service := services.NewProductService(mockRepo)

	existing := &models.Product{ID: "1", Title: "Tomatoes", Price: decimal.NewFromFloat(10.0), Quantity: 100, FarmerID: farmer.ID}
	updated := &models.Product{ID: "1", Title: "Tomatoes (new crop)", Price: decimal.NewFromFloat(12.0), Quantity: 95}

	// Test successful update by the owning farmer
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	mockRepo.On("Update", updated).Return(nil).Once()
	err := service.UpdateProduct(farmer, updated)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Another farmer cannot touch it
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	err = service.UpdateProduct(otherFarmer, updated)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	mockRepo.AssertExpectations(t)

	// Test update failure (product not found)
	mockRepo.On("GetByID", "99").Return(nil, repositories.ErrProductNotFound).Once()
	err = service.UpdateProduct(farmer, &models.Product{ID: "99", Title: "NonExistent"})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	service := services.NewProductService(mockRepo)

	existing := &models.Product{ID: "1", Title: "Tomatoes", FarmerID: farmer.ID}

	// Test successful deletion by the owning farmer
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	mockRepo.On("Delete", "1").Return(nil).Once()
	err := service.DeleteProduct(farmer, "1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Another farmer is denied
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	err = service.DeleteProduct(otherFarmer, "1")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	mockRepo.AssertExpectations(t)

	// Test deletion failure (product not found)
	mockRepo.On("GetByID", "99").Return(nil, repositories.ErrProductNotFound).Once()
	err = service.DeleteProduct(farmer, "99")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}
