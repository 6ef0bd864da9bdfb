package persistence

import (
	"context"
	"errors"
	"testing"

	appstock "github.com/lager/backend/internal/application/stock"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScopeCommits(t *testing.T) {
	db := setupStockTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	material := newTestMaterial(t, "MAT-100", "Steel Plate", 0)

	err := scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		if err := repos.MaterialRepo().Save(ctx, material); err != nil {
			return err
		}
		movement, err := stock.NewInboundMovement(material.ID, material.ID, decimal.NewFromInt(5), "", nil)
		if err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
	require.NoError(t, err)

	found, err := NewGormMaterialRepository(db).FindByID(ctx, material.ID)
	require.NoError(t, err)
	assert.Equal(t, "MAT-100", found.MaterialNumber)

	page, err := NewGormMovementRepository(db).FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestGormTransactionScopeRollsBackOnError(t *testing.T) {
	db := setupStockTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	material := newTestMaterial(t, "MAT-101", "Copper Wire", 0)
	boom := errors.New("boom")

	err := scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		if err := repos.MaterialRepo().Save(ctx, material); err != nil {
			return err
		}
		movement, err := stock.NewInboundMovement(material.ID, material.ID, decimal.NewFromInt(5), "", nil)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither the material nor the ledger entry survives the rollback
	_, err = NewGormMaterialRepository(db).FindByID(ctx, material.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	page, err := NewGormMovementRepository(db).FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}
