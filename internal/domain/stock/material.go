package stock

import (
	"time"

	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Material represents a tracked material with its denormalized aggregate stock.
// CurrentStock mirrors the sum of all Position quantities for this material and
// is kept in sync by the movement service; the reconciliation job repairs drift.
type Material struct {
	shared.BaseAggregateRoot
	MaterialNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_material_number"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Description    string          `gorm:"type:varchar(1000)"`
	Unit           string          `gorm:"type:varchar(30);not null"`
	Category       string          `gorm:"type:varchar(100);not null"`
	Condition      string          `gorm:"type:varchar(100)"`
	MinStock       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// LastLocation is a display cache naming the most recently touched
	// location. It is not authoritative once a material spans several
	// locations; readers that need exact placement query positions.
	LastLocation string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new material with zero stock
func NewMaterial(materialNumber, name, unit, category, condition string, minStock decimal.Decimal) (*Material, error) {
	if materialNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material unit cannot be empty")
	}
	if minStock.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot be negative")
	}
	if category == "" {
		category = "Standard"
	}

	return &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MaterialNumber:    materialNumber,
		Name:              name,
		Unit:              unit,
		Category:          category,
		Condition:         condition,
		MinStock:          minStock,
		CurrentStock:      decimal.Zero,
	}, nil
}

// ApplyStockDelta adjusts the aggregate stock by delta and records the touched
// location as the new LastLocation (last writer wins). The aggregate is
// clamped at zero; the position-level guard rejects negative quantities before
// this is ever reached. Emits MaterialBelowMinStock when the adjustment leaves
// the aggregate under the configured threshold.
func (m *Material) ApplyStockDelta(delta decimal.Decimal, locationName string) {
	wasBelow := m.IsBelowMinStock()

	newStock := m.CurrentStock.Add(delta)
	if newStock.IsNegative() {
		newStock = decimal.Zero
	}
	m.CurrentStock = newStock
	if locationName != "" {
		m.LastLocation = locationName
	}
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	if !wasBelow && m.IsBelowMinStock() {
		m.AddDomainEvent(NewMaterialBelowMinStockEvent(m))
	}
}

// OverwriteStock unconditionally replaces the aggregate with the given total.
// Used by reconciliation only; no domain event and no ledger entry is produced.
func (m *Material) OverwriteStock(total decimal.Decimal) {
	if total.IsNegative() {
		total = decimal.Zero
	}
	m.CurrentStock = total
	m.UpdatedAt = time.Now()
}

// IsBelowMinStock returns true if the aggregate is under the alert threshold
func (m *Material) IsBelowMinStock() bool {
	return m.MinStock.GreaterThan(decimal.Zero) && m.CurrentStock.LessThan(m.MinStock)
}

// HasStock returns true if any stock is recorded for this material
func (m *Material) HasStock() bool {
	return m.CurrentStock.GreaterThan(decimal.Zero)
}
