package services_test

import (
	"testing"

	"agrimarket/internal/models"
	"agrimarket/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	order := &models.Order{
		ID:       "order-1",
		BuyerID:  "buyer-1",
		FarmerID: "farmer-1",
		Status:   models.OrderStatusPending,
	}
	processing := &models.Order{
		ID:       "order-2",
		BuyerID:  "buyer-1",
		FarmerID: "farmer-1",
		Status:   models.OrderStatusProcessing,
	}
	admin := services.Principal{ID: "admin-1", Role: models.RoleAdmin}

	tests := []struct {
		name      string
		principal services.Principal
		action    services.OrderAction
		order     *models.Order
		want      bool
	}{
		{"buyer views own order", buyer, services.ActionView, order, true},
		{"farmer views own order", farmer, services.ActionView, order, true},
		{"stranger cannot view", otherBuyer, services.ActionView, order, false},
		{"admin has no order override", admin, services.ActionView, order, false},

		{"buyer cannot update status", buyer, services.ActionUpdateStatus, order, false},
		{"farmer updates status", farmer, services.ActionUpdateStatus, order, true},
		{"other farmer cannot update status", otherFarmer, services.ActionUpdateStatus, order, false},

		{"buyer cancels own order", buyer, services.ActionCancel, order, true},
		{"farmer cancels own order", farmer, services.ActionCancel, order, true},
		{"stranger cannot cancel", otherBuyer, services.ActionCancel, order, false},

		{"farmer completes processing order", farmer, services.ActionComplete, processing, true},
		{"farmer cannot complete pending order", farmer, services.ActionComplete, order, false},
		{"buyer cannot complete", buyer, services.ActionComplete, processing, false},

		{"farmer updates payment status", farmer, services.ActionUpdatePayment, order, true},
		{"buyer cannot update payment status", buyer, services.ActionUpdatePayment, order, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.CanPerform(tt.principal, tt.action, tt.order))
		})
	}
}
