package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/lager/backend/internal/application/stock"
	"github.com/lager/backend/internal/infrastructure/telemetry"
)

// ReconciliationHandler triggers aggregate repair sweeps on demand
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *appstock.ReconciliationService
	metrics               *telemetry.StockMetrics
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(
	reconciliationService *appstock.ReconciliationService,
	metrics *telemetry.StockMetrics,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		metrics:               metrics,
	}
}

// RegisterRoutes registers reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reconciliation := rg.Group("/stock/reconciliation")
	{
		reconciliation.POST("/run", h.Run)
		reconciliation.POST("/materials/:id", h.RunMaterial)
	}
}

// Run sweeps all materials and repairs aggregates that drifted from the
// sum of their positions
func (h *ReconciliationHandler) Run(c *gin.Context) {
	report, err := h.reconciliationService.Sync(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordReconciliationRepairs(c.Request.Context(), report.Repaired)
	}
	h.Success(c, report)
}

// RunMaterial reconciles a single material
func (h *ReconciliationHandler) RunMaterial(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid material ID")
		return
	}

	repaired, err := h.reconciliationService.SyncMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if h.metrics != nil && repaired {
		h.metrics.RecordReconciliationRepairs(c.Request.Context(), 1)
	}
	h.Success(c, gin.H{"repaired": repaired})
}
