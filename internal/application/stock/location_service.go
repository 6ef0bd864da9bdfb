package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// CreateLocationCommand registers a new storage location
type CreateLocationCommand struct {
	LocationCode string
	Name         string
	Type         string
	Capacity     *decimal.Decimal
}

// LocationService manages storage locations
type LocationService struct {
	scope        TransactionScope
	locationRepo stock.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(scope TransactionScope, locationRepo stock.LocationRepository) *LocationService {
	return &LocationService{scope: scope, locationRepo: locationRepo}
}

// Create registers a new location with a unique code
func (s *LocationService) Create(ctx context.Context, cmd CreateLocationCommand) (*stock.Location, error) {
	exists, err := s.locationRepo.ExistsByCode(ctx, cmd.LocationCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Location code %s is already registered", cmd.LocationCode))
	}

	location, err := stock.NewLocation(cmd.LocationCode, cmd.Name, cmd.Type, cmd.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// List returns locations with pagination and optional search
func (s *LocationService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[stock.Location], error) {
	return s.locationRepo.FindAll(ctx, filter)
}

// Get returns a single location
func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*stock.Location, error) {
	return s.locationRepo.FindByID(ctx, id)
}

// Delete removes a location. The delete is refused while any stock is still
// held there; the guard and the delete run in one transaction.
func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		location, err := repos.LocationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		occupied, err := repos.PositionRepo().AnyAtLocation(ctx, location.ID)
		if err != nil {
			return err
		}
		if occupied {
			return shared.NewDomainError("INVARIANT_VIOLATION",
				fmt.Sprintf("Location %s still holds stock", location.LocationCode))
		}
		return repos.LocationRepo().Delete(ctx, location.ID)
	})
}
