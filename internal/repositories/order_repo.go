package repositories

import (
	"time"

	"agrimarket/internal/models"
)

// OrderPageSize is the fixed page size for order listings.
const OrderPageSize = 10

// OrderFilter scopes and filters an order listing. Exactly one of
// BuyerID/FarmerID is set by the caller according to the principal's
// role; DateFrom/DateTo bound CreatedAt by calendar date.
type OrderFilter struct {
	BuyerID  string
	FarmerID string
	Status   models.OrderStatus
	DateFrom time.Time
	DateTo   time.Time
	Page     int
}

// NewOrderLine is one requested cart line; prices are never taken from
// the client, they are resolved inside the placement transaction.
type NewOrderLine struct {
	ProductID string
	Quantity  int
}

// OrderRepository defines the interface for order data access. The two
// inventory-touching operations are transactional units: reservation and
// release happen in the same transaction as the order writes, so a
// failure leaves nothing partially applied.
type OrderRepository interface {
	// List returns one page of orders (newest first) plus the total
	// matching count.
	List(filter OrderFilter) ([]models.Order, int64, error)
	GetByID(id string) (*models.Order, error)

	// CreateWithReservations atomically reserves stock for every line,
	// snapshots unit prices, computes the total, and persists the order
	// with its items. Any shortfall, unknown product, or mixed-farmer
	// cart aborts the whole transaction.
	CreateWithReservations(order *models.Order, lines []NewOrderLine) error

	// CancelWithRelease atomically marks a pending order cancelled and
	// returns every line's quantity to stock. Fails with
	// ErrOrderNotPending once the order has left pending.
	CancelWithRelease(id string) (*models.Order, error)

	// TransitionStatus is a compare-and-set from one status to another.
	TransitionStatus(id string, from, to models.OrderStatus) error
	UpdatePaymentStatus(id string, status models.PaymentStatus) error
}
