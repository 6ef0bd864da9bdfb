package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panic    bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panic {
		panic("boom")
	}
	h.received = append(h.received, event)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Material", uuid.New())
	return &e
}

func TestInMemoryEventBusDispatchesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	matching := &recordingHandler{types: []string{"stock.material_below_min_stock"}}
	other := &recordingHandler{types: []string{"stock.other"}}
	bus.Subscribe(matching)
	bus.Subscribe(other)

	err := bus.Publish(context.Background(), newTestEvent("stock.material_below_min_stock"))
	require.NoError(t, err)

	assert.Len(t, matching.received, 1)
	assert.Empty(t, other.received)
}

func TestInMemoryEventBusCatchAllHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("stock.a"), newTestEvent("stock.b")))

	assert.Len(t, all.received, 2)
}

func TestInMemoryEventBusHandlerFailureDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"stock.a"}, fail: true}
	panicking := &recordingHandler{types: []string{"stock.a"}, panic: true}
	ok := &recordingHandler{types: []string{"stock.a"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.a")))

	assert.Len(t, ok.received, 1)
}

func TestInMemoryEventBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"stock.a"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.a")))

	assert.Empty(t, h.received)
}
