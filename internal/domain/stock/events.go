package stock

import (
	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the stock domain
const (
	EventTypeMaterialBelowMinStock = "stock.material_below_min_stock"
)

// MaterialBelowMinStockEvent is emitted when an adjustment leaves a
// material's aggregate stock under its configured minimum.
type MaterialBelowMinStockEvent struct {
	shared.BaseDomainEvent
	MaterialNumber string          `json:"material_number"`
	MaterialName   string          `json:"material_name"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
}

// NewMaterialBelowMinStockEvent creates a new low-stock event for the material
func NewMaterialBelowMinStockEvent(m *Material) *MaterialBelowMinStockEvent {
	return &MaterialBelowMinStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialBelowMinStock, "Material", m.ID),
		MaterialNumber:  m.MaterialNumber,
		MaterialName:    m.Name,
		CurrentStock:    m.CurrentStock,
		MinStock:        m.MinStock,
	}
}
