package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// MovementService orchestrates stock movements. Every operation writes one
// ledger entry and the position and material updates it implies inside a
// single transaction, so the three records can never diverge on a partial
// failure.
type MovementService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewMovementService creates a new MovementService
func NewMovementService(scope TransactionScope) *MovementService {
	return &MovementService{scope: scope}
}

// SetEventPublisher sets the publisher used for post-commit domain events
func (s *MovementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Inbound books stock into a location and appends an INBOUND ledger entry
func (s *MovementService) Inbound(ctx context.Context, cmd InboundCommand) (*stock.Movement, error) {
	var movement *stock.Movement
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, expectedVersion, err := s.loadMaterial(ctx, repos, cmd.MaterialID)
		if err != nil {
			return err
		}
		location, err := repos.LocationRepo().FindByID(ctx, cmd.LocationID)
		if err != nil {
			return err
		}

		movement, err = stock.NewInboundMovement(material.ID, location.ID, cmd.Quantity, cmd.Reason, cmd.PerformedBy)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		if err := s.applyAdjustment(ctx, repos, material, location, cmd.Quantity); err != nil {
			return err
		}

		events = material.GetDomainEvents()
		return repos.MaterialRepo().SaveWithLock(ctx, material, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return movement, nil
}

// Outbound books stock out of a location and appends an OUTBOUND ledger entry
func (s *MovementService) Outbound(ctx context.Context, cmd OutboundCommand) (*stock.Movement, error) {
	var movement *stock.Movement
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, expectedVersion, err := s.loadMaterial(ctx, repos, cmd.MaterialID)
		if err != nil {
			return err
		}
		location, err := repos.LocationRepo().FindByID(ctx, cmd.LocationID)
		if err != nil {
			return err
		}

		movement, err = stock.NewOutboundMovement(material.ID, location.ID, cmd.Quantity, cmd.Reason, cmd.PerformedBy)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		if err := s.applyAdjustment(ctx, repos, material, location, cmd.Quantity.Neg()); err != nil {
			return err
		}

		events = material.GetDomainEvents()
		return repos.MaterialRepo().SaveWithLock(ctx, material, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return movement, nil
}

// Transfer moves stock between two locations. One ledger entry records both
// endpoints; the source and destination positions are adjusted in the same
// transaction and the aggregate stock stays unchanged.
func (s *MovementService) Transfer(ctx context.Context, cmd TransferCommand) (*stock.Movement, error) {
	var movement *stock.Movement
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, expectedVersion, err := s.loadMaterial(ctx, repos, cmd.MaterialID)
		if err != nil {
			return err
		}
		from, err := repos.LocationRepo().FindByID(ctx, cmd.FromLocationID)
		if err != nil {
			return err
		}
		to, err := repos.LocationRepo().FindByID(ctx, cmd.ToLocationID)
		if err != nil {
			return err
		}

		movement, err = stock.NewTransferMovement(material.ID, from.ID, to.ID, cmd.Quantity, cmd.Reason, cmd.PerformedBy)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		if err := s.applyAdjustment(ctx, repos, material, from, cmd.Quantity.Neg()); err != nil {
			return err
		}
		if err := s.applyAdjustment(ctx, repos, material, to, cmd.Quantity); err != nil {
			return err
		}

		events = material.GetDomainEvents()
		return repos.MaterialRepo().SaveWithLock(ctx, material, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return movement, nil
}

// Correction sets the counted quantity of a material at a location. The
// ledger entry records the magnitude of the difference; a count that confirms
// the stored quantity still produces an entry with magnitude zero.
func (s *MovementService) Correction(ctx context.Context, cmd CorrectionCommand) (*stock.Movement, error) {
	if cmd.NewQuantity.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Counted quantity cannot be negative")
	}

	var movement *stock.Movement
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, expectedVersion, err := s.loadMaterial(ctx, repos, cmd.MaterialID)
		if err != nil {
			return err
		}
		location, err := repos.LocationRepo().FindByID(ctx, cmd.LocationID)
		if err != nil {
			return err
		}

		current := decimal.Zero
		position, err := repos.PositionRepo().FindByMaterialAndLocation(ctx, material.ID, location.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if position != nil {
			current = position.Quantity
		}
		delta := cmd.NewQuantity.Sub(current)

		movement, err = stock.NewCorrectionMovement(material.ID, location.ID, delta.Abs(), cmd.Reason, cmd.PerformedBy)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		if !delta.IsZero() {
			if err := s.applyAdjustment(ctx, repos, material, location, delta); err != nil {
				return err
			}
		}

		events = material.GetDomainEvents()
		return repos.MaterialRepo().SaveWithLock(ctx, material, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return movement, nil
}

// InitialIntake registers a new material together with its first stock. The
// material, its location (created on the fly when the code is unknown), the
// opening position and the INITIAL_INTAKE ledger entry are written in one
// transaction.
func (s *MovementService) InitialIntake(ctx context.Context, cmd InitialIntakeCommand) (*stock.Movement, error) {
	var movement *stock.Movement
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.MaterialRepo().ExistsByNumber(ctx, cmd.MaterialNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Material number %s is already registered", cmd.MaterialNumber))
		}

		material, err := stock.NewMaterial(cmd.MaterialNumber, cmd.Name, cmd.Unit, cmd.Category, cmd.Condition, cmd.MinStock)
		if err != nil {
			return err
		}
		material.Description = cmd.Description

		location, err := s.resolveOrCreateLocation(ctx, repos, cmd.LocationCode, cmd.LocationName)
		if err != nil {
			return err
		}

		if err := repos.MaterialRepo().Save(ctx, material); err != nil {
			return err
		}

		movement, err = stock.NewInitialIntakeMovement(material.ID, location.ID, cmd.Quantity, cmd.Reason, cmd.PerformedBy)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		if err := s.applyAdjustment(ctx, repos, material, location, cmd.Quantity); err != nil {
			return err
		}

		events = material.GetDomainEvents()
		return repos.MaterialRepo().Save(ctx, material)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return movement, nil
}

// loadMaterial fetches a material and captures the version the transaction
// started from, for the optimistic lock on the final save
func (s *MovementService) loadMaterial(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*stock.Material, int, error) {
	material, err := repos.MaterialRepo().FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return material, material.Version, nil
}

// applyAdjustment changes the position of material at location by delta and
// mirrors the delta into the material's aggregate stock. Positions never go
// negative; a position that reaches exactly zero is deleted.
func (s *MovementService) applyAdjustment(ctx context.Context, repos TransactionalRepositories, material *stock.Material, location *stock.Location, delta decimal.Decimal) error {
	position, err := repos.PositionRepo().FindByMaterialAndLocation(ctx, material.ID, location.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if position == nil {
		if delta.IsNegative() {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("No stock of %s at %s", material.MaterialNumber, location.LocationCode))
		}
		position, err = stock.NewPosition(material.ID, location.ID, delta)
		if err != nil {
			return err
		}
		if err := repos.PositionRepo().Save(ctx, position); err != nil {
			return err
		}
	} else {
		newQuantity := position.Quantity.Add(delta)
		switch {
		case newQuantity.IsNegative():
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Only %s of %s at %s", position.Quantity.String(), material.MaterialNumber, location.LocationCode))
		case newQuantity.IsZero():
			if err := repos.PositionRepo().Delete(ctx, position.ID); err != nil {
				return err
			}
		default:
			if err := position.SetQuantity(newQuantity); err != nil {
				return err
			}
			if err := repos.PositionRepo().Save(ctx, position); err != nil {
				return err
			}
		}
	}

	material.ApplyStockDelta(delta, location.Name)
	return nil
}

// resolveOrCreateLocation finds a location by code, creating it with defaults
// when it does not exist yet
func (s *MovementService) resolveOrCreateLocation(ctx context.Context, repos TransactionalRepositories, code, name string) (*stock.Location, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Location code cannot be empty")
	}

	location, err := repos.LocationRepo().FindByCode(ctx, code)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	location, err = stock.NewLocation(code, name, "", nil)
	if err != nil {
		return nil, err
	}
	if err := repos.LocationRepo().Save(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *MovementService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Event delivery failures do not undo a committed movement.
	_ = s.eventPublisher.Publish(ctx, events...)
}
