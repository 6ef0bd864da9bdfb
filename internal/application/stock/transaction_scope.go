package stock

import (
	"context"

	"github.com/lager/backend/internal/domain/identity"
	"github.com/lager/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// A movement and the position and material updates it implies are written
// through a single scope so they commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within
// a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// MaterialRepo returns the material repository scoped to the current transaction
	MaterialRepo() stock.MaterialRepository
	// LocationRepo returns the location repository scoped to the current transaction
	LocationRepo() stock.LocationRepository
	// PositionRepo returns the position repository scoped to the current transaction
	PositionRepo() stock.PositionRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
	// UserRepo returns the user repository scoped to the current transaction
	UserRepo() identity.UserRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests that assert service logic without a database.
type NoOpTransactionScope struct {
	materialRepo stock.MaterialRepository
	locationRepo stock.LocationRepository
	positionRepo stock.PositionRepository
	movementRepo stock.MovementRepository
	userRepo     identity.UserRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	materialRepo stock.MaterialRepository,
	locationRepo stock.LocationRepository,
	positionRepo stock.PositionRepository,
	movementRepo stock.MovementRepository,
	userRepo identity.UserRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		positionRepo: positionRepo,
		movementRepo: movementRepo,
		userRepo:     userRepo,
	}
}

// Execute runs the function directly against the wrapped repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MaterialRepo returns the wrapped material repository
func (s *NoOpTransactionScope) MaterialRepo() stock.MaterialRepository { return s.materialRepo }

// LocationRepo returns the wrapped location repository
func (s *NoOpTransactionScope) LocationRepo() stock.LocationRepository { return s.locationRepo }

// PositionRepo returns the wrapped position repository
func (s *NoOpTransactionScope) PositionRepo() stock.PositionRepository { return s.positionRepo }

// MovementRepo returns the wrapped movement repository
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository { return s.movementRepo }

// UserRepo returns the wrapped user repository
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository { return s.userRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
