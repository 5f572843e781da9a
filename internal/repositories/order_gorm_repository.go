package repositories

import (
	"errors"
	"fmt"

	"agrimarket/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository. The
// inventory-touching operations run as single transactions so a stock
// decrement and the order rows it belongs to commit or roll back
// together.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// List returns one page of orders matching the filter, newest first,
// together with the total matching count.
func (r *GORMOrderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.BuyerID != "" {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.FarmerID != "" {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		// DateTo is a calendar date; include the whole day.
		query = query.Where("created_at < ?", filter.DateTo.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	var orders []models.Order
	err := query.
		Preload("Items").
		Preload("Items.Product").
		Preload("Buyer").
		Preload("Farmer").
		Order("created_at DESC").
		Offset((page - 1) * OrderPageSize).
		Limit(OrderPageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// GetByID retrieves a full order with items, product details, buyer and
// farmer.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Buyer").
		Preload("Farmer").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// CreateWithReservations places an order as one atomic unit: every
// product row is locked, its stock conditionally decremented, its unit
// price snapshotted into the line, and the order plus items inserted.
// Any unknown product, shortfall or mixed-farmer cart rolls the whole
// transaction back; no partial order or partial decrement is ever
// observable.
func (r *GORMOrderRepository) CreateWithReservations(order *models.Order, lines []NewOrderLine) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))

		for i, line := range lines {
			product, err := lockProduct(tx, line.ProductID)
			if err != nil {
				return err
			}

			// The first line's product fixes the order's farmer; a cart
			// may not span farmers.
			if i == 0 {
				order.FarmerID = product.FarmerID
			} else if product.FarmerID != order.FarmerID {
				return ErrMixedFarmerOrder
			}

			if err := reserveStock(tx, product, line.Quantity); err != nil {
				return err
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		order.Status = models.OrderStatusPending
		order.PaymentStatus = models.PaymentStatusPending
		order.TotalAmount = total
		order.Items = items

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

// CancelWithRelease cancels a pending order and restores every line's
// quantity to stock in the same transaction. An order that has left
// pending is rejected with ErrOrderNotPending, which also makes a second
// cancel a no-op: stock is never double-released.
func (r *GORMOrderRepository) CancelWithRelease(id string) (*models.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := withRowLock(tx).First(&order, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order %s: %w", id, err)
		}
		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		var items []models.OrderItem
		if err := tx.Find(&items, "order_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to load items for order %s: %w", id, err)
		}
		for _, item := range items {
			if err := releaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ?", id).
			Update("status", models.OrderStatusCancelled)
		if res.Error != nil {
			return fmt.Errorf("failed to cancel order %s: %w", id, res.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// TransitionStatus moves an order from one status to another as a
// compare-and-set; a concurrent transition makes the update match
// nothing and the caller gets ErrStatusConflict instead of a silently
// skipped state.
func (r *GORMOrderRepository) TransitionStatus(id string, from, to models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order %s: %w", id, err)
		}
		if count == 0 {
			return ErrOrderNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// UpdatePaymentStatus sets the payment label independently of the order
// status; it has no inventory effect.
func (r *GORMOrderRepository) UpdatePaymentStatus(id string, status models.PaymentStatus) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
