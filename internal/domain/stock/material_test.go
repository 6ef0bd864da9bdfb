package stock

import (
	"testing"

	"github.com/lager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterial(t *testing.T) {
	t.Run("creates material with valid input", func(t *testing.T) {
		m, err := NewMaterial("MAT-001", "Hex Bolt M8", "pcs", "Fasteners", "new", decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, "MAT-001", m.MaterialNumber)
		assert.Equal(t, "Hex Bolt M8", m.Name)
		assert.Equal(t, "pcs", m.Unit)
		assert.Equal(t, "Fasteners", m.Category)
		assert.True(t, m.CurrentStock.IsZero())
		assert.Equal(t, 1, m.Version)
		assert.NotEqual(t, m.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("defaults category when empty", func(t *testing.T) {
		m, err := NewMaterial("MAT-002", "Washer", "pcs", "", "", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "Standard", m.Category)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			number   string
			matName  string
			unit     string
			minStock decimal.Decimal
		}{
			{"empty number", "", "Bolt", "pcs", decimal.Zero},
			{"empty name", "MAT-003", "", "pcs", decimal.Zero},
			{"empty unit", "MAT-003", "Bolt", "", decimal.Zero},
			{"negative min stock", "MAT-003", "Bolt", "pcs", decimal.NewFromInt(-1)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewMaterial(tt.number, tt.matName, tt.unit, "", "", tt.minStock)
				require.Error(t, err)

				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
			})
		}
	})
}

func TestMaterialApplyStockDelta(t *testing.T) {
	newTestMaterial := func(t *testing.T, minStock int64) *Material {
		t.Helper()
		m, err := NewMaterial("MAT-100", "Steel Plate", "kg", "Raw", "", decimal.NewFromInt(minStock))
		require.NoError(t, err)
		return m
	}

	t.Run("positive delta increases aggregate and bumps version", func(t *testing.T) {
		m := newTestMaterial(t, 0)
		m.ApplyStockDelta(decimal.NewFromInt(25), "A-01-01")

		assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, "A-01-01", m.LastLocation)
		assert.Equal(t, 2, m.Version)
	})

	t.Run("negative delta decreases aggregate", func(t *testing.T) {
		m := newTestMaterial(t, 0)
		m.ApplyStockDelta(decimal.NewFromInt(25), "A-01-01")
		m.ApplyStockDelta(decimal.NewFromInt(-10), "A-01-01")

		assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, 3, m.Version)
	})

	t.Run("aggregate is clamped at zero", func(t *testing.T) {
		m := newTestMaterial(t, 0)
		m.ApplyStockDelta(decimal.NewFromInt(5), "A-01-01")
		m.ApplyStockDelta(decimal.NewFromInt(-10), "A-01-01")

		assert.True(t, m.CurrentStock.IsZero())
	})

	t.Run("last location is last writer wins", func(t *testing.T) {
		m := newTestMaterial(t, 0)
		m.ApplyStockDelta(decimal.NewFromInt(5), "A-01-01")
		m.ApplyStockDelta(decimal.NewFromInt(5), "B-02-03")

		assert.Equal(t, "B-02-03", m.LastLocation)
	})

	t.Run("empty location name keeps previous last location", func(t *testing.T) {
		m := newTestMaterial(t, 0)
		m.ApplyStockDelta(decimal.NewFromInt(5), "A-01-01")
		m.ApplyStockDelta(decimal.NewFromInt(-2), "")

		assert.Equal(t, "A-01-01", m.LastLocation)
	})

	t.Run("emits low stock event when crossing the threshold", func(t *testing.T) {
		m := newTestMaterial(t, 10)
		m.ApplyStockDelta(decimal.NewFromInt(20), "A-01-01")
		m.ClearDomainEvents()

		m.ApplyStockDelta(decimal.NewFromInt(-15), "A-01-01")

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*MaterialBelowMinStockEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeMaterialBelowMinStock, evt.EventType())
		assert.Equal(t, m.ID, evt.AggregateID())
		assert.True(t, evt.CurrentStock.Equal(decimal.NewFromInt(5)))
	})

	t.Run("no event while already below threshold", func(t *testing.T) {
		m := newTestMaterial(t, 10)
		m.ApplyStockDelta(decimal.NewFromInt(5), "A-01-01")
		m.ClearDomainEvents()

		m.ApplyStockDelta(decimal.NewFromInt(-2), "A-01-01")

		assert.Empty(t, m.GetDomainEvents())
	})

	t.Run("no event with zero min stock", func(t *testing.T) {
		m := newTestMaterial(t, 0)
		m.ApplyStockDelta(decimal.NewFromInt(5), "A-01-01")
		m.ApplyStockDelta(decimal.NewFromInt(-5), "A-01-01")

		assert.Empty(t, m.GetDomainEvents())
	})
}

func TestMaterialOverwriteStock(t *testing.T) {
	m, err := NewMaterial("MAT-200", "Copper Wire", "m", "Electric", "", decimal.NewFromInt(50))
	require.NoError(t, err)

	t.Run("replaces aggregate without version bump or events", func(t *testing.T) {
		version := m.Version
		m.OverwriteStock(decimal.NewFromInt(42))

		assert.True(t, m.CurrentStock.Equal(decimal.NewFromInt(42)))
		assert.Equal(t, version, m.Version)
		assert.Empty(t, m.GetDomainEvents())
	})

	t.Run("clamps negative totals at zero", func(t *testing.T) {
		m.OverwriteStock(decimal.NewFromInt(-3))
		assert.True(t, m.CurrentStock.IsZero())
	})
}

func TestMaterialIsBelowMinStock(t *testing.T) {
	m, err := NewMaterial("MAT-300", "Paint", "l", "", "", decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.True(t, m.IsBelowMinStock())

	m.ApplyStockDelta(decimal.NewFromInt(10), "A-01-01")
	assert.False(t, m.IsBelowMinStock())

	m.ApplyStockDelta(decimal.NewFromFloat(-0.5), "A-01-01")
	assert.True(t, m.IsBelowMinStock())
}
