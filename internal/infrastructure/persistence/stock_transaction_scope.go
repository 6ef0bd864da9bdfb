package persistence

import (
	"context"

	appstock "github.com/lager/backend/internal/application/stock"
	"github.com/lager/backend/internal/domain/identity"
	"github.com/lager/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements the stock transaction scope on GORM
// transactions. All repository operations inside one Execute call share a
// single database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. An error
// from the function rolls the transaction back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// MaterialRepo returns the material repository scoped to the current transaction
func (r *gormTransactionalRepositories) MaterialRepo() stock.MaterialRepository {
	return NewGormMaterialRepository(r.tx)
}

// LocationRepo returns the location repository scoped to the current transaction
func (r *gormTransactionalRepositories) LocationRepo() stock.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// PositionRepo returns the position repository scoped to the current transaction
func (r *gormTransactionalRepositories) PositionRepo() stock.PositionRepository {
	return NewGormPositionRepository(r.tx)
}

// MovementRepo returns the movement ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// UserRepo returns the user repository scoped to the current transaction
func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
