package repositories

import (
	"sort"
	"sync"
	"time"

	"agrimarket/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// It shares a MockProductRepository so stock reservation and release
// carry the same all-or-nothing semantics as the GORM implementation.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository
// backed by the given product store.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// List returns one page of matching orders, newest first, plus the total
// matching count.
func (r *MockOrderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Order
	for _, order := range r.orders {
		if filter.BuyerID != "" && order.BuyerID != filter.BuyerID {
			continue
		}
		if filter.FarmerID != "" && order.FarmerID != filter.FarmerID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if !filter.DateFrom.IsZero() && order.CreatedAt.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && !order.CreatedAt.Before(filter.DateTo.AddDate(0, 0, 1)) {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * OrderPageSize
	if start >= len(matched) {
		return []models.Order{}, total, nil
	}
	end := start + OrderPageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// CreateWithReservations reserves stock for every line atomically via
// the shared product store, snapshots prices and persists the order.
func (r *MockOrderRepository) CreateWithReservations(order *models.Order, lines []NewOrderLine) error {
	resolved, err := r.products.reserveAll(lines)
	if err != nil {
		return err
	}

	// Single-farmer carts only; undo the reservation on violation.
	farmerID := resolved[0].FarmerID
	for _, product := range resolved[1:] {
		if product.FarmerID != farmerID {
			items := make([]models.OrderItem, len(lines))
			for i, line := range lines {
				items[i] = models.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}
			}
			r.products.releaseAll(items)
			return ErrMixedFarmerOrder
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		product := resolved[i]
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

	order.FarmerID = farmerID
	order.Status = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusPending
	order.TotalAmount = total
	order.Items = items
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// CancelWithRelease cancels a pending order and restores its quantities.
func (r *MockOrderRepository) CancelWithRelease(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPending
	}

	r.products.releaseAll(order.Items)
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}

// TransitionStatus applies a compare-and-set on the order status.
func (r *MockOrderRepository) TransitionStatus(id string, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if order.Status != from {
		return ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// UpdatePaymentStatus sets the payment label for an order.
func (r *MockOrderRepository) UpdatePaymentStatus(id string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.PaymentStatus = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
