package stock

import (
	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultLocationType is assigned when a location is created implicitly
// during an initial intake and no explicit type is known.
const DefaultLocationType = "Standard"

// Location represents a physical storage location, identified by a unique
// code in aisle-shelf-bin form (e.g. "A-01-02").
type Location struct {
	shared.BaseEntity
	LocationCode string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_code"`
	Name         string           `gorm:"type:varchar(255);not null"`
	Type         string           `gorm:"type:varchar(100);not null"`
	Capacity     *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new storage location
func NewLocation(locationCode, name, locationType string, capacity *decimal.Decimal) (*Location, error) {
	if locationCode == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Location code cannot be empty")
	}
	if name == "" {
		name = locationCode
	}
	if locationType == "" {
		locationType = DefaultLocationType
	}
	if capacity != nil && capacity.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Location capacity cannot be negative")
	}

	return &Location{
		BaseEntity:   shared.NewBaseEntity(),
		LocationCode: locationCode,
		Name:         name,
		Type:         locationType,
		Capacity:     capacity,
	}, nil
}
