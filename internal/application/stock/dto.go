package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InboundCommand records stock arriving at a location from outside
type InboundCommand struct {
	MaterialID  uuid.UUID
	LocationID  uuid.UUID
	Quantity    decimal.Decimal
	Reason      string
	PerformedBy *uuid.UUID
}

// OutboundCommand records stock leaving a location
type OutboundCommand struct {
	MaterialID  uuid.UUID
	LocationID  uuid.UUID
	Quantity    decimal.Decimal
	Reason      string
	PerformedBy *uuid.UUID
}

// TransferCommand moves stock between two locations
type TransferCommand struct {
	MaterialID     uuid.UUID
	FromLocationID uuid.UUID
	ToLocationID   uuid.UUID
	Quantity       decimal.Decimal
	Reason         string
	PerformedBy    *uuid.UUID
}

// CorrectionCommand sets the counted quantity at one location. The ledger
// entry records the magnitude of the difference to the previous quantity.
type CorrectionCommand struct {
	MaterialID  uuid.UUID
	LocationID  uuid.UUID
	NewQuantity decimal.Decimal
	Reason      string
	PerformedBy *uuid.UUID
}

// InitialIntakeCommand registers a new material together with its first
// stock at a location, all in one transaction
type InitialIntakeCommand struct {
	MaterialNumber string
	Name           string
	Description    string
	Unit           string
	Category       string
	Condition      string
	MinStock       decimal.Decimal
	LocationCode   string
	LocationName   string
	Quantity       decimal.Decimal
	Reason         string
	PerformedBy    *uuid.UUID
}

// MaterialView is the list representation of a material
type MaterialView struct {
	ID             uuid.UUID       `json:"id"`
	MaterialNumber string          `json:"material_number"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Unit           string          `json:"unit"`
	Category       string          `json:"category"`
	Condition      string          `json:"condition,omitempty"`
	MinStock       decimal.Decimal `json:"min_stock"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	LastLocation   string          `json:"last_location,omitempty"`
	BelowMinStock  bool            `json:"below_min_stock"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InventoryView is a material carrying stock, with the number of
// locations holding it
type InventoryView struct {
	MaterialView
	PositionCount int64 `json:"position_count"`
}

// PositionView represents one material's holding at one location
type PositionView struct {
	MaterialID     uuid.UUID       `json:"material_id"`
	MaterialNumber string          `json:"material_number,omitempty"`
	MaterialName   string          `json:"material_name,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	LocationID     uuid.UUID       `json:"location_id"`
	LocationCode   string          `json:"location_code,omitempty"`
	LocationName   string          `json:"location_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// MaterialDetailView is a material together with its positions
type MaterialDetailView struct {
	MaterialView
	Positions []PositionView `json:"positions"`
}

// MovementView is the read representation of a ledger entry
type MovementView struct {
	ID           uuid.UUID       `json:"id"`
	Kind         string          `json:"kind"`
	MaterialID   uuid.UUID       `json:"material_id"`
	FromLocation string          `json:"from_location,omitempty"`
	ToLocation   string          `json:"to_location,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
	PerformedBy  string          `json:"performed_by,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// ReconciliationReport summarizes one reconciliation sweep
type ReconciliationReport struct {
	Checked   int             `json:"checked"`
	Repaired  int             `json:"repaired"`
	Failed    int             `json:"failed"`
	Drift     decimal.Decimal `json:"drift"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}
