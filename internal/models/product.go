package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a farmer's listing in the catalog. Quantity is the
// inventory ledger's source of truth; IsAvailable is a derived cache and
// must be kept equal to (Quantity > 0) on every quantity mutation.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string          `json:"title" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	IsAvailable bool            `json:"is_available"`
	Category    string          `json:"category" validate:"omitempty,max=100"`
	Location    string          `json:"location" validate:"omitempty,max=255"`
	FarmerID    string          `json:"farmer_id" gorm:"type:varchar(36);index"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
