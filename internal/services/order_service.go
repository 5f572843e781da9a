package services

import (
	"encoding/json"
	"log"
	"time"

	"agrimarket/internal/models"
	"agrimarket/internal/repositories"
)

// EventPublisher emits order lifecycle events onto the broker. The
// rabbitmq client satisfies it.
type EventPublisher interface {
	Publish(event string, body []byte) error
}

// OrderService handles business logic related to orders: placement,
// the status state machine, cancellation and payment labelling. Every
// method takes the acting principal explicitly and gates the operation
// through the authorization policy before touching state.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
}

// NewOrderService creates a new OrderService. A nil publisher disables
// lifecycle events.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// OrderLineInput is one requested cart line.
type OrderLineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderInput is the validated shape of an order placement request.
type PlaceOrderInput struct {
	Items           []OrderLineInput     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string               `json:"shipping_address" validate:"required"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card"`
}

// ListOrdersInput carries the optional listing filters.
type ListOrdersInput struct {
	Status   models.OrderStatus
	DateFrom time.Time
	DateTo   time.Time
	Page     int
}

// ListOrders returns one page of orders scoped to the principal's role:
// a farmer sees orders where they are the farmer, everyone else sees
// orders where they are the buyer.
func (s *OrderService) ListOrders(p Principal, in ListOrdersInput) ([]models.Order, int64, error) {
	filter := repositories.OrderFilter{
		Status:   in.Status,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Page:     in.Page,
	}
	if p.Role == models.RoleFarmer {
		filter.FarmerID = p.ID
	} else {
		filter.BuyerID = p.ID
	}
	return s.orderRepo.List(filter)
}

// GetOrder retrieves a single order with items, buyer and farmer,
// subject to the view capability.
func (s *OrderService) GetOrder(p Principal, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(p, ActionView, order) {
		return nil, ErrUnauthorized
	}
	return order, nil
}

// PlaceOrder creates an order for the principal as buyer. Stock
// reservation, price snapshotting and the order writes happen in one
// repository transaction; any shortfall or unknown product aborts the
// whole order.
func (s *OrderService) PlaceOrder(p Principal, in PlaceOrderInput) (*models.Order, error) {
	lines := make([]repositories.NewOrderLine, len(in.Items))
	for i, item := range in.Items {
		lines[i] = repositories.NewOrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	order := &models.Order{
		BuyerID:         p.ID,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}
	if err := s.orderRepo.CreateWithReservations(order, lines); err != nil {
		return nil, err
	}

	s.publishEvent("order.created", order)

	// Reload so the response carries items with product details.
	return s.orderRepo.GetByID(order.ID)
}

// UpdateStatus moves an order to a new status on behalf of its farmer.
// A target of cancelled is routed through the cancellation flow so
// reserved stock is always returned to the ledger.
func (s *OrderService) UpdateStatus(p Principal, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(p, ActionUpdateStatus, order) {
		return nil, ErrUnauthorized
	}

	if status == models.OrderStatusCancelled {
		return s.cancelReconciled(order)
	}

	if !models.CanTransition(order.Status, status) {
		return nil, &IllegalTransitionError{From: order.Status, To: status}
	}
	if err := s.orderRepo.TransitionStatus(id, order.Status, status); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent("order.status_changed", updated)
	return updated, nil
}

// Cancel cancels a pending order on behalf of its buyer or farmer,
// releasing every line's quantity back to stock.
func (s *OrderService) Cancel(p Principal, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(p, ActionCancel, order) {
		return nil, ErrUnauthorized
	}
	return s.cancelReconciled(order)
}

// cancelReconciled runs the inventory-reconciling cancellation; the
// pending check is re-done inside the repository transaction, so a
// concurrent transition (or a second cancel) fails there rather than
// double-releasing stock.
func (s *OrderService) cancelReconciled(order *models.Order) (*models.Order, error) {
	cancelled, err := s.orderRepo.CancelWithRelease(order.ID)
	if err != nil {
		return nil, err
	}
	s.publishEvent("order.cancelled", cancelled)
	return cancelled, nil
}

// Complete marks a processing order completed on behalf of its farmer.
// The policy bundles the processing requirement, so a premature
// completion is an authorization failure, not a transition error.
func (s *OrderService) Complete(p Principal, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(p, ActionComplete, order) {
		return nil, ErrUnauthorized
	}
	if err := s.orderRepo.TransitionStatus(id, models.OrderStatusProcessing, models.OrderStatusCompleted); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent("order.status_changed", updated)
	return updated, nil
}

// UpdatePaymentStatus sets the payment label on behalf of the order's
// farmer; it is independent of the order status and touches no stock.
func (s *OrderService) UpdatePaymentStatus(p Principal, id string, status models.PaymentStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !CanPerform(p, ActionUpdatePayment, order) {
		return nil, ErrUnauthorized
	}
	if err := s.orderRepo.UpdatePaymentStatus(id, status); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(id)
}

// publishEvent emits an order lifecycle event, best-effort: a publish
// failure is logged, never surfaced to the caller.
func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"event":     event,
		"order_id":  order.ID,
		"buyer_id":  order.BuyerID,
		"farmer_id": order.FarmerID,
		"status":    order.Status,
		"total":     order.TotalAmount,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", event, order.ID, err)
		return
	}
	if err := s.events.Publish(event, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}
