package stock_test

import (
	"context"
	"testing"

	appstock "github.com/lager/backend/internal/application/stock"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/lager/backend/internal/infrastructure/event"
	"github.com/lager/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingHandler struct {
	events []shared.DomainEvent
}

func (h *capturingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.events = append(h.events, e)
	return nil
}

func (h *capturingHandler) EventTypes() []string {
	return []string{stock.EventTypeMaterialBelowMinStock}
}

func TestLowStockEventPublishedAfterCommit(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	bus := event.NewInMemoryEventBus(zap.NewNop())
	handler := &capturingHandler{}
	bus.Subscribe(handler)
	f.service.SetEventPublisher(bus)

	material := f.seedMaterial(t, "MAT-400", 10)
	location := f.seedLocation(t, "G-01-01")

	_, err := f.service.Inbound(ctx, appstock.InboundCommand{
		MaterialID: material.ID, LocationID: location.ID, Quantity: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Empty(t, handler.events)

	_, err = f.service.Outbound(ctx, appstock.OutboundCommand{
		MaterialID: material.ID, LocationID: location.ID, Quantity: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	require.Len(t, handler.events, 1)
	evt, ok := handler.events[0].(*stock.MaterialBelowMinStockEvent)
	require.True(t, ok)
	assert.Equal(t, "MAT-400", evt.MaterialNumber)
	assert.True(t, evt.CurrentStock.Equal(decimal.NewFromInt(5)))
}

func TestNoEventWhenMovementRollsBack(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	bus := event.NewInMemoryEventBus(zap.NewNop())
	handler := &capturingHandler{}
	bus.Subscribe(handler)
	f.service.SetEventPublisher(bus)

	material := f.seedMaterial(t, "MAT-401", 10)
	location := f.seedLocation(t, "G-01-02")

	_, err := f.service.Outbound(ctx, appstock.OutboundCommand{
		MaterialID: material.ID, LocationID: location.ID, Quantity: decimal.NewFromInt(5),
	})
	assertDomainErrorCode(t, err, "INSUFFICIENT_STOCK")
	assert.Empty(t, handler.events)
}

// Full walk through the movement lifecycle: initial intake, transfer,
// outbound, correction, then a reconciliation sweep that finds nothing to
// repair. The ledger, positions and aggregate must stay consistent at every
// step.
func TestStockLifecycleEndToEnd(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	// Register a material with 100 pcs at A-01-01
	_, err := f.service.InitialIntake(ctx, appstock.InitialIntakeCommand{
		MaterialNumber: "MAT-500",
		Name:           "Lifecycle Material",
		Unit:           "pcs",
		MinStock:       decimal.NewFromInt(10),
		LocationCode:   "A-01-01",
		Quantity:       decimal.NewFromInt(100),
		Reason:         "initial registration",
	})
	require.NoError(t, err)

	material, err := f.materialRepo.FindByNumber(ctx, "MAT-500")
	require.NoError(t, err)
	locationA, err := f.locationRepo.FindByCode(ctx, "A-01-01")
	require.NoError(t, err)
	locationB := f.seedLocation(t, "B-02-02")

	// Move 40 to B-02-02
	_, err = f.service.Transfer(ctx, appstock.TransferCommand{
		MaterialID:     material.ID,
		FromLocationID: locationA.ID,
		ToLocationID:   locationB.ID,
		Quantity:       decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	// Issue 25 from A-01-01
	_, err = f.service.Outbound(ctx, appstock.OutboundCommand{
		MaterialID: material.ID,
		LocationID: locationA.ID,
		Quantity:   decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	// Count finds 38 at B-02-02 instead of 40
	correction, err := f.service.Correction(ctx, appstock.CorrectionCommand{
		MaterialID:  material.ID,
		LocationID:  locationB.ID,
		NewQuantity: decimal.NewFromInt(38),
		Reason:      "cycle count",
	})
	require.NoError(t, err)
	assert.True(t, correction.Quantity.Equal(decimal.NewFromInt(2)))

	// Positions: 35 at A, 38 at B; aggregate 73
	assert.True(t, f.positionQuantity(t, material.ID, locationA.ID).Equal(decimal.NewFromInt(35)))
	assert.True(t, f.positionQuantity(t, material.ID, locationB.ID).Equal(decimal.NewFromInt(38)))

	updated, err := f.materialRepo.FindByID(ctx, material.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(73)))

	// Four ledger entries, one per operation
	page, err := f.movementRepo.FindByMaterial(ctx, material.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Equal(t, int64(4), page.Total)

	kinds := make(map[stock.MovementKind]int)
	for _, m := range page.Items {
		kinds[m.Kind]++
	}
	assert.Equal(t, 1, kinds[stock.MovementKindInitialIntake])
	assert.Equal(t, 1, kinds[stock.MovementKindTransfer])
	assert.Equal(t, 1, kinds[stock.MovementKindOutbound])
	assert.Equal(t, 1, kinds[stock.MovementKindCorrection])

	// The aggregate already matches the positions, so nothing to repair
	reconciler := appstock.NewReconciliationService(
		persistence.NewGormTransactionScope(f.db), f.materialRepo, zap.NewNop())
	report, err := reconciler.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Repaired)
}

func TestDrainAndRecountFlow(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.service.InitialIntake(ctx, appstock.InitialIntakeCommand{
		MaterialNumber: "MAT-510",
		Name:           "Recount Material",
		Unit:           "pcs",
		LocationCode:   "L1",
		Quantity:       decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	material, err := f.materialRepo.FindByNumber(ctx, "MAT-510")
	require.NoError(t, err)
	locationOne, err := f.locationRepo.FindByCode(ctx, "L1")
	require.NoError(t, err)
	locationTwo := f.seedLocation(t, "L2")

	_, err = f.service.Inbound(ctx, appstock.InboundCommand{
		MaterialID: material.ID, LocationID: locationTwo.ID, Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	_, err = f.service.Outbound(ctx, appstock.OutboundCommand{
		MaterialID: material.ID, LocationID: locationOne.ID, Quantity: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	// Moving the remaining 7 drains L1 completely
	_, err = f.service.Transfer(ctx, appstock.TransferCommand{
		MaterialID:     material.ID,
		FromLocationID: locationOne.ID,
		ToLocationID:   locationTwo.ID,
		Quantity:       decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	_, err = f.positionRepo.FindByMaterialAndLocation(ctx, material.ID, locationOne.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.True(t, f.positionQuantity(t, material.ID, locationTwo.ID).Equal(decimal.NewFromInt(12)))

	// Count finds 20 at L2; the ledger records the difference magnitude
	correction, err := f.service.Correction(ctx, appstock.CorrectionCommand{
		MaterialID:  material.ID,
		LocationID:  locationTwo.ID,
		NewQuantity: decimal.NewFromInt(20),
		Reason:      "annual inventory",
	})
	require.NoError(t, err)
	assert.True(t, correction.Quantity.Equal(decimal.NewFromInt(8)))

	updated, err := f.materialRepo.FindByID(ctx, material.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(20)))

	sum, err := f.positionRepo.SumByMaterial(ctx, material.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(updated.CurrentStock))

	page, err := f.movementRepo.FindByMaterial(ctx, material.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
}
