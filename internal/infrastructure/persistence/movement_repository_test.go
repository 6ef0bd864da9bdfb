package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormMovementRepositoryCreateAndFind(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMovementRepository(db)
	ctx := context.Background()

	materialID := uuid.New()
	movement, err := stock.NewInboundMovement(materialID, uuid.New(), decimal.NewFromInt(10), "delivery", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, movement))

	found, err := repo.FindByID(ctx, movement.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.MovementKindInbound, found.Kind)
	assert.Equal(t, materialID, found.MaterialID)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(10)))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMovementRepositoryFindByMaterial(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMovementRepository(db)
	ctx := context.Background()

	materialID := uuid.New()
	locationID := uuid.New()

	for i := 0; i < 3; i++ {
		m, err := stock.NewInboundMovement(materialID, locationID, decimal.NewFromInt(int64(i+1)), "", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))
	}
	other, err := stock.NewInboundMovement(uuid.New(), locationID, decimal.NewFromInt(5), "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	page, err := repo.FindByMaterial(ctx, materialID, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)

	for _, m := range page.Items {
		assert.Equal(t, materialID, m.MaterialID)
	}
}

func TestGormMovementRepositoryCountByKind(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMovementRepository(db)
	ctx := context.Background()

	materialID := uuid.New()
	from := uuid.New()
	to := uuid.New()

	inbound, err := stock.NewInboundMovement(materialID, to, decimal.NewFromInt(10), "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, inbound))

	transfer, err := stock.NewTransferMovement(materialID, from, to, decimal.NewFromInt(4), "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, transfer))

	second, err := stock.NewInboundMovement(materialID, to, decimal.NewFromInt(1), "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, second))

	counts, err := repo.CountByKind(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[stock.MovementKindInbound])
	assert.Equal(t, int64(1), counts[stock.MovementKindTransfer])
}
