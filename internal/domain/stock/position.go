package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Position records how much of one material is held at one location.
// A position only exists while its quantity is strictly positive; the
// movement service deletes the row the moment the quantity reaches zero.
type Position struct {
	shared.BaseEntity
	MaterialID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_position_material_location,priority:1;index:idx_position_material"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_position_material_location,priority:2;index:idx_position_location"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LastUpdated time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Position) TableName() string {
	return "positions"
}

// NewPosition creates a position with an initial positive quantity
func NewPosition(materialID, locationID uuid.UUID, quantity decimal.Decimal) (*Position, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Location ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Position quantity must be positive")
	}

	return &Position{
		BaseEntity:  shared.NewBaseEntity(),
		MaterialID:  materialID,
		LocationID:  locationID,
		Quantity:    quantity,
		LastUpdated: time.Now(),
	}, nil
}

// SetQuantity replaces the stored quantity. The caller is responsible for
// deleting the position instead when the new quantity is zero.
func (p *Position) SetQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Position quantity must be positive")
	}
	p.Quantity = quantity
	p.LastUpdated = time.Now()
	p.UpdatedAt = p.LastUpdated
	return nil
}
