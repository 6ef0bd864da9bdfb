package stock

import (
	"context"

	"github.com/lager/backend/internal/domain/shared"
	"github.com/lager/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs an alert whenever a movement pushes a material
// under its minimum stock. Subscribed on the in-process event bus.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// Handle processes a low stock event
func (h *LowStockAlertHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*stock.MaterialBelowMinStockEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("material below minimum stock",
		zap.String("material_number", evt.MaterialNumber),
		zap.String("material_name", evt.MaterialName),
		zap.String("current_stock", evt.CurrentStock.String()),
		zap.String("min_stock", evt.MinStock.String()))
	return nil
}

// EventTypes returns the event types this handler listens to
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{stock.EventTypeMaterialBelowMinStock}
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
