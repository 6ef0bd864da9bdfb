package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementKind represents the kind of a stock movement
type MovementKind string

const (
	// MovementKindInbound represents stock entering a location from outside
	MovementKindInbound MovementKind = "INBOUND"
	// MovementKindOutbound represents stock leaving a location
	MovementKindOutbound MovementKind = "OUTBOUND"
	// MovementKindTransfer represents stock moving between two locations
	MovementKindTransfer MovementKind = "TRANSFER"
	// MovementKindCorrection represents a count-based quantity correction
	MovementKindCorrection MovementKind = "CORRECTION"
	// MovementKindInitialIntake represents the first intake of a newly
	// registered material, recorded through the same ledger path
	MovementKindInitialIntake MovementKind = "INITIAL_INTAKE"
)

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// IsValid returns true if the movement kind is known
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindInbound,
		MovementKindOutbound,
		MovementKindTransfer,
		MovementKindCorrection,
		MovementKindInitialIntake:
		return true
	}
	return false
}

// Movement is an immutable ledger entry for a stock-affecting event.
// Movements are append-only; corrections are recorded as new entries,
// existing entries are never updated or deleted.
type Movement struct {
	shared.BaseEntity
	Kind           MovementKind    `gorm:"type:varchar(30);not null;index:idx_movement_kind"`
	MaterialID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_material"`
	FromLocationID *uuid.UUID      `gorm:"type:uuid"`
	ToLocationID   *uuid.UUID      `gorm:"type:uuid"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // magnitude, never negative
	Reason         string          `gorm:"type:varchar(500)"`
	PerformedBy    *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt     time.Time       `gorm:"not null;index:idx_movement_occurred_at"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

func newMovement(kind MovementKind, materialID uuid.UUID, quantity decimal.Decimal) (*Movement, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Movement quantity cannot be negative")
	}

	return &Movement{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       kind,
		MaterialID: materialID,
		Quantity:   quantity,
		OccurredAt: time.Now(),
	}, nil
}

// NewInboundMovement creates a ledger entry for stock entering toLocation
func NewInboundMovement(materialID, toLocationID uuid.UUID, quantity decimal.Decimal, reason string, performedBy *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be greater than zero")
	}
	m, err := newMovement(MovementKindInbound, materialID, quantity)
	if err != nil {
		return nil, err
	}
	m.ToLocationID = &toLocationID
	m.Reason = reason
	m.PerformedBy = performedBy
	return m, nil
}

// NewOutboundMovement creates a ledger entry for stock leaving fromLocation
func NewOutboundMovement(materialID, fromLocationID uuid.UUID, quantity decimal.Decimal, reason string, performedBy *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be greater than zero")
	}
	m, err := newMovement(MovementKindOutbound, materialID, quantity)
	if err != nil {
		return nil, err
	}
	m.FromLocationID = &fromLocationID
	m.Reason = reason
	m.PerformedBy = performedBy
	return m, nil
}

// NewTransferMovement creates a single ledger entry recording both endpoints
// of a location-to-location transfer
func NewTransferMovement(materialID, fromLocationID, toLocationID uuid.UUID, quantity decimal.Decimal, reason string, performedBy *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be greater than zero")
	}
	if fromLocationID == toLocationID {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Source and destination location must differ")
	}
	m, err := newMovement(MovementKindTransfer, materialID, quantity)
	if err != nil {
		return nil, err
	}
	m.FromLocationID = &fromLocationID
	m.ToLocationID = &toLocationID
	m.Reason = reason
	m.PerformedBy = performedBy
	return m, nil
}

// NewCorrectionMovement creates a ledger entry for a stock count correction.
// The quantity stores the magnitude of the change; a zero magnitude is valid
// and records that a count took place without finding a difference.
func NewCorrectionMovement(materialID, locationID uuid.UUID, magnitude decimal.Decimal, reason string, performedBy *uuid.UUID) (*Movement, error) {
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Correction reason is required")
	}
	m, err := newMovement(MovementKindCorrection, materialID, magnitude)
	if err != nil {
		return nil, err
	}
	m.ToLocationID = &locationID
	m.Reason = reason
	m.PerformedBy = performedBy
	return m, nil
}

// NewInitialIntakeMovement creates the ledger entry for the first intake of a
// newly registered material
func NewInitialIntakeMovement(materialID, toLocationID uuid.UUID, quantity decimal.Decimal, reason string, performedBy *uuid.UUID) (*Movement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be greater than zero")
	}
	m, err := newMovement(MovementKindInitialIntake, materialID, quantity)
	if err != nil {
		return nil, err
	}
	m.ToLocationID = &toLocationID
	m.Reason = reason
	m.PerformedBy = performedBy
	return m, nil
}
