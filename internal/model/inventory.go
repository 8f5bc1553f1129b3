package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked ingredient or supply.
type InventoryItem struct {
	BaseModel
	SKU          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Stock        int             `gorm:"default:0" json:"stock" validate:"gte=0"`
	Unit         string          `gorm:"type:varchar(20)" json:"unit"`
	UnitCost     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"unit_cost" validate:"gte=0"`
	MinimumStock int             `gorm:"default:0" json:"minimum_stock" validate:"gte=0"`
}

// IsLow reports whether stock is at or below the reorder threshold.
func (i *InventoryItem) IsLow() bool {
	return i.Stock <= i.MinimumStock
}

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement records goods received (IN) or consumed (OUT).
type StockMovement struct {
	BaseModel
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id" validate:"uuid_required"`
	Item     *InventoryItem  `gorm:"foreignKey:ItemID" json:"item,omitempty" validate:"-"`
	Type     MovementType    `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Cost     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"cost"` // unit cost * quantity at time of movement
	Note     string          `gorm:"type:text" json:"note"`
}
