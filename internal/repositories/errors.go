package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrOrderNotPending guards cancellation: once an order has entered
	// fulfilment its reserved stock is no longer unwound.
	ErrOrderNotPending = errors.New("only pending orders can be cancelled")

	// ErrStatusConflict means a compare-and-set status update found the
	// order in a different status than the caller observed.
	ErrStatusConflict = errors.New("order status changed concurrently")

	// ErrMixedFarmerOrder rejects carts spanning more than one farmer;
	// an order has exactly one farmer.
	ErrMixedFarmerOrder = errors.New("all items in an order must belong to the same farmer")
)

// InsufficientStockError reports a reservation shortfall for a single
// product, identifying the offending line.
type InsufficientStockError struct {
	ProductID    string
	ProductTitle string
	Requested    int
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity for product %s (requested: %d, available: %d)",
		e.ProductTitle, e.Requested, e.Available)
}
