package repositories

import (
	"errors"
	"fmt"

	"agrimarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database. Availability is derived
// from the quantity, never taken from the caller.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.IsAvailable = product.Quantity > 0
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	product.IsAvailable = product.Quantity > 0
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound when an update
		// matches nothing, so we check RowsAffected.
		return ErrProductNotFound
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// withRowLock adds FOR UPDATE where the dialect supports it. SQLite has
// no row locks; its single-writer transaction lock already serializes
// the read-check-decrement sequence there.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockProduct loads a product row under a pessimistic lock so the stock
// check, price snapshot and decrement serialize across concurrent
// transactions.
func lockProduct(tx *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	err := withRowLock(tx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product %s: %w", id, err)
	}
	return &product, nil
}

// reserveStock decrements a product's quantity inside tx with a
// conditional update; zero rows affected means another transaction got
// there first and the remaining stock is short. The availability flag is
// re-derived in the same statement.
func reserveStock(tx *gorm.DB, product *models.Product, qty int) error {
	if product.Quantity < qty {
		return &InsufficientStockError{
			ProductID:    product.ID,
			ProductTitle: product.Title,
			Requested:    qty,
			Available:    product.Quantity,
		}
	}
	res := tx.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", product.ID, qty).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity - ?", qty),
			"is_available": gorm.Expr("quantity - ? > 0", qty),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reserve stock for product %s: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return &InsufficientStockError{
			ProductID:    product.ID,
			ProductTitle: product.Title,
			Requested:    qty,
			Available:    product.Quantity,
		}
	}
	return nil
}

// releaseStock returns quantity to a product inside tx. Availability is
// restored unconditionally: the ledger holds no partial reservations
// across unfulfilled orders, so any release makes the product available.
func releaseStock(tx *gorm.DB, productID string, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", qty),
			"is_available": true,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to release stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
