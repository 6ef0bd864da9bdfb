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

func newTestMaterial(t *testing.T, number, name string, minStock int64) *stock.Material {
	t.Helper()
	m, err := stock.NewMaterial(number, name, "pcs", "Fasteners", "", decimal.NewFromInt(minStock))
	require.NoError(t, err)
	return m
}

func TestGormMaterialRepositorySaveAndFind(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMaterialRepository(db)
	ctx := context.Background()

	material := newTestMaterial(t, "MAT-001", "Hex Bolt M8", 10)
	require.NoError(t, repo.Save(ctx, material))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, material.ID)
		require.NoError(t, err)
		assert.Equal(t, "MAT-001", found.MaterialNumber)
		assert.Equal(t, "Hex Bolt M8", found.Name)
	})

	t.Run("finds by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "MAT-001")
		require.NoError(t, err)
		assert.Equal(t, material.ID, found.ID)
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("reports existing numbers", func(t *testing.T) {
		exists, err := repo.ExistsByNumber(ctx, "MAT-001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByNumber(ctx, "MAT-999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormMaterialRepositoryFindAll(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMaterialRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestMaterial(t, "MAT-001", "Hex Bolt M8", 0)))
	require.NoError(t, repo.Save(ctx, newTestMaterial(t, "MAT-002", "Hex Nut M8", 0)))
	require.NoError(t, repo.Save(ctx, newTestMaterial(t, "MAT-003", "Steel Plate", 0)))

	t.Run("paginates", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("searches by name", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "hex"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("searches by number", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "MAT-003"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Steel Plate", page.Items[0].Name)
	})
}

func TestGormMaterialRepositorySaveWithLock(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMaterialRepository(db)
	ctx := context.Background()

	material := newTestMaterial(t, "MAT-010", "Washer", 0)
	require.NoError(t, repo.Save(ctx, material))

	t.Run("saves when version matches", func(t *testing.T) {
		expected := material.Version
		material.ApplyStockDelta(decimal.NewFromInt(5), "A-01-01")
		require.NoError(t, repo.SaveWithLock(ctx, material, expected))

		found, err := repo.FindByID(ctx, material.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, material.Version, found.Version)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		stale := material.Version - 1
		material.ApplyStockDelta(decimal.NewFromInt(1), "A-01-01")
		err := repo.SaveWithLock(ctx, material, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormMaterialRepositoryFindBelowMinStock(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMaterialRepository(db)
	ctx := context.Background()

	low := newTestMaterial(t, "MAT-020", "Low Stock Item", 10)
	low.ApplyStockDelta(decimal.NewFromInt(3), "A-01-01")
	require.NoError(t, repo.Save(ctx, low))

	ok := newTestMaterial(t, "MAT-021", "Healthy Item", 10)
	ok.ApplyStockDelta(decimal.NewFromInt(50), "A-01-01")
	require.NoError(t, repo.Save(ctx, ok))

	noThreshold := newTestMaterial(t, "MAT-022", "No Threshold", 0)
	require.NoError(t, repo.Save(ctx, noThreshold))

	materials, err := repo.FindBelowMinStock(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "MAT-020", materials[0].MaterialNumber)
}

func TestGormMaterialRepositoryFindAllIDs(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewGormMaterialRepository(db)
	ctx := context.Background()

	first := newTestMaterial(t, "MAT-030", "First", 0)
	second := newTestMaterial(t, "MAT-031", "Second", 0)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	ids, err := repo.FindAllIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)
}
