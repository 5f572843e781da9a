package services

import (
	"errors"
	"fmt"

	"agrimarket/internal/models"
)

// ErrUnauthorized is the uniform policy-denial outcome. Handlers map it
// to 403 without further detail.
var ErrUnauthorized = errors.New("unauthorized")

// IllegalTransitionError reports a status change the state machine does
// not permit.
type IllegalTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// Principal is the authenticated actor a request runs as. It is passed
// explicitly into every service call; there is no ambient current-user
// state.
type Principal struct {
	ID   string
	Role models.Role
}

// OrderAction is the closed capability set evaluated against an order.
type OrderAction int

const (
	ActionView OrderAction = iota
	ActionUpdateStatus
	ActionCancel
	ActionComplete
	ActionUpdatePayment
)

// CanPerform decides whether the principal may perform the action on the
// order. Buyers and farmers act only on their own orders; admins get no
// override on orders. Completion additionally requires the order to be
// exactly in processing.
func CanPerform(p Principal, action OrderAction, order *models.Order) bool {
	isBuyer := p.ID == order.BuyerID
	isFarmer := p.ID == order.FarmerID

	switch action {
	case ActionView, ActionCancel:
		return isBuyer || isFarmer
	case ActionUpdateStatus, ActionUpdatePayment:
		return isFarmer
	case ActionComplete:
		return isFarmer && order.Status == models.OrderStatusProcessing
	}
	return false
}
