package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialRepository defines the persistence interface for materials
type MaterialRepository interface {
	// FindByID retrieves a material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)
	// FindByNumber retrieves a material by its unique material number
	FindByNumber(ctx context.Context, materialNumber string) (*Material, error)
	// FindAll retrieves materials with pagination and optional search
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Material], error)
	// FindInStock retrieves materials whose aggregate stock is positive
	FindInStock(ctx context.Context, filter shared.Filter) (shared.Paginated[Material], error)
	// FindBelowMinStock retrieves materials whose aggregate stock is under
	// their configured minimum
	FindBelowMinStock(ctx context.Context) ([]Material, error)
	// FindAllIDs retrieves the IDs of every material, for reconciliation sweeps
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
	// Save persists a material unconditionally
	Save(ctx context.Context, material *Material) error
	// SaveWithLock persists a material using optimistic locking on Version.
	// Returns ErrConcurrencyConflict when the stored version has moved on.
	SaveWithLock(ctx context.Context, material *Material, expectedVersion int) error
	// ExistsByNumber checks whether a material number is already taken
	ExistsByNumber(ctx context.Context, materialNumber string) (bool, error)
}

// LocationRepository defines the persistence interface for storage locations
type LocationRepository interface {
	// FindByID retrieves a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	// FindByCode retrieves a location by its unique location code
	FindByCode(ctx context.Context, locationCode string) (*Location, error)
	// FindByIDs retrieves the locations for a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Location, error)
	// FindAll retrieves locations with pagination and optional search
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Location], error)
	// Save persists a location
	Save(ctx context.Context, location *Location) error
	// Delete removes a location. Callers must verify no stock remains first.
	Delete(ctx context.Context, id uuid.UUID) error
	// ExistsByCode checks whether a location code is already taken
	ExistsByCode(ctx context.Context, locationCode string) (bool, error)
}

// PositionRepository defines the persistence interface for stock positions
type PositionRepository interface {
	// FindByMaterialAndLocation retrieves the position for one material at one
	// location, or ErrNotFound when no stock is held there
	FindByMaterialAndLocation(ctx context.Context, materialID, locationID uuid.UUID) (*Position, error)
	// FindByMaterial retrieves all positions of a material
	FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]Position, error)
	// FindByLocation retrieves all positions at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID) ([]Position, error)
	// SumByMaterial returns the sum of all position quantities for a material
	SumByMaterial(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error)
	// AnyAtLocation reports whether any position exists at the location
	AnyAtLocation(ctx context.Context, locationID uuid.UUID) (bool, error)
	// CountByMaterialIDs returns the number of positions per material for
	// a set of materials. Materials without positions are absent from the map.
	CountByMaterialIDs(ctx context.Context, materialIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// Save persists a position
	Save(ctx context.Context, position *Position) error
	// Delete removes a position row
	Delete(ctx context.Context, id uuid.UUID) error
}

// MovementRepository defines the persistence interface for the movement ledger.
// The ledger is append-only; there are no update or delete operations.
type MovementRepository interface {
	// Create appends a movement to the ledger
	Create(ctx context.Context, movement *Movement) error
	// FindByID retrieves a single ledger entry
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	// FindAll retrieves ledger entries with pagination, newest first
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Movement], error)
	// FindByMaterial retrieves the ledger entries of one material, newest first
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) (shared.Paginated[Movement], error)
	// CountByKind returns the number of ledger entries per movement kind
	CountByKind(ctx context.Context) (map[MovementKind]int64, error)
}
