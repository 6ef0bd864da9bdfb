package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StockMetrics records business-level counters for the movement engine
type StockMetrics struct {
	movementsTotal        metric.Int64Counter
	movementFailures      metric.Int64Counter
	reconciliationRepairs metric.Int64Counter
}

// NewStockMetrics creates the stock metric instruments on the global meter
func NewStockMetrics() (*StockMetrics, error) {
	meter := otel.GetMeterProvider().Meter(TracerName)

	movementsTotal, err := meter.Int64Counter("stock.movements.total",
		metric.WithDescription("Number of booked stock movements by kind"))
	if err != nil {
		return nil, err
	}
	movementFailures, err := meter.Int64Counter("stock.movements.failures",
		metric.WithDescription("Number of rejected stock movements by error code"))
	if err != nil {
		return nil, err
	}
	reconciliationRepairs, err := meter.Int64Counter("stock.reconciliation.repairs",
		metric.WithDescription("Number of aggregate stock values repaired by reconciliation"))
	if err != nil {
		return nil, err
	}

	return &StockMetrics{
		movementsTotal:        movementsTotal,
		movementFailures:      movementFailures,
		reconciliationRepairs: reconciliationRepairs,
	}, nil
}

// RecordMovement counts a successfully booked movement
func (m *StockMetrics) RecordMovement(ctx context.Context, kind string) {
	m.movementsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordMovementFailure counts a rejected movement
func (m *StockMetrics) RecordMovementFailure(ctx context.Context, kind, code string) {
	m.movementFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("code", code),
	))
}

// RecordReconciliationRepairs counts repaired aggregates after a sweep
func (m *StockMetrics) RecordReconciliationRepairs(ctx context.Context, repaired int) {
	if repaired <= 0 {
		return
	}
	m.reconciliationRepairs.Add(ctx, int64(repaired))
}
