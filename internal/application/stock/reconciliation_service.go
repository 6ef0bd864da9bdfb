package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService repairs drift between the denormalized aggregate
// stock on materials and the sum of their positions. Drift can only appear
// through out-of-band writes; the movement path keeps both in sync.
type ReconciliationService struct {
	scope        TransactionScope
	materialRepo stock.MaterialRepository
	logger       *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(scope TransactionScope, materialRepo stock.MaterialRepository, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		scope:        scope,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// Sync recomputes every material's aggregate stock from its positions and
// overwrites the stored value where the two disagree. Each material is
// handled in its own transaction so one failure does not abort the sweep.
// The overwrite is unconditional; a concurrent movement that lands between
// the read and the write is repaired by the next sweep.
func (s *ReconciliationService) Sync(ctx context.Context) (*ReconciliationReport, error) {
	started := time.Now()
	report := &ReconciliationReport{Drift: decimal.Zero, StartedAt: started}

	ids, err := s.materialRepo.FindAllIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checked++

		repaired, drift, err := s.syncOne(ctx, id)
		if err != nil {
			report.Failed++
			s.logger.Warn("reconciliation failed for material",
				zap.String("material_id", id.String()),
				zap.Error(err))
			continue
		}
		if repaired {
			report.Repaired++
			report.Drift = report.Drift.Add(drift.Abs())
		}
	}

	report.Duration = time.Since(started)
	s.logger.Info("reconciliation sweep finished",
		zap.Int("checked", report.Checked),
		zap.Int("repaired", report.Repaired),
		zap.Int("failed", report.Failed),
		zap.String("total_drift", report.Drift.String()),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// SyncMaterial reconciles a single material on demand
func (s *ReconciliationService) SyncMaterial(ctx context.Context, materialID uuid.UUID) (bool, error) {
	repaired, _, err := s.syncOne(ctx, materialID)
	return repaired, err
}

func (s *ReconciliationService) syncOne(ctx context.Context, materialID uuid.UUID) (bool, decimal.Decimal, error) {
	var repaired bool
	var drift decimal.Decimal

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, err := repos.MaterialRepo().FindByID(ctx, materialID)
		if err != nil {
			return err
		}
		total, err := repos.PositionRepo().SumByMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		if material.CurrentStock.Equal(total) {
			return nil
		}

		drift = total.Sub(material.CurrentStock)
		s.logger.Info("repairing aggregate stock drift",
			zap.String("material_number", material.MaterialNumber),
			zap.String("stored", material.CurrentStock.String()),
			zap.String("computed", total.String()))

		material.OverwriteStock(total)
		if err := repos.MaterialRepo().Save(ctx, material); err != nil {
			return err
		}
		repaired = true
		return nil
	})
	return repaired, drift, err
}
