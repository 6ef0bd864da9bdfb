package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appstock "github.com/lager/backend/internal/application/stock"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/lager/backend/internal/infrastructure/telemetry"
)

// MovementHandler exposes the stock movement operations
type MovementHandler struct {
	BaseHandler
	movementService *appstock.MovementService
	queryService    *appstock.QueryService
	metrics         *telemetry.StockMetrics
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(
	movementService *appstock.MovementService,
	queryService *appstock.QueryService,
	metrics *telemetry.StockMetrics,
) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
		queryService:    queryService,
		metrics:         metrics,
	}
}

// RegisterRoutes registers movement routes
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/stock/movements")
	{
		movements.POST("/inbound", h.Inbound)
		movements.POST("/outbound", h.Outbound)
		movements.POST("/transfer", h.Transfer)
		movements.POST("/correction", h.Correction)
		movements.POST("/initial-intake", h.InitialIntake)
		movements.GET("", h.List)
		movements.GET("/stats", h.Stats)
	}
}

// InboundRequest books stock arriving at a location
type InboundRequest struct {
	MaterialID  string          `json:"material_id" binding:"required,uuid"`
	LocationID  string          `json:"location_id" binding:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" binding:"max=500"`
	PerformedBy string          `json:"performed_by" binding:"omitempty,uuid"`
}

// OutboundRequest books stock leaving a location
type OutboundRequest struct {
	MaterialID  string          `json:"material_id" binding:"required,uuid"`
	LocationID  string          `json:"location_id" binding:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" binding:"max=500"`
	PerformedBy string          `json:"performed_by" binding:"omitempty,uuid"`
}

// TransferRequest moves stock between two locations
type TransferRequest struct {
	MaterialID     string          `json:"material_id" binding:"required,uuid"`
	FromLocationID string          `json:"from_location_id" binding:"required,uuid"`
	ToLocationID   string          `json:"to_location_id" binding:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason" binding:"max=500"`
	PerformedBy    string          `json:"performed_by" binding:"omitempty,uuid"`
}

// CorrectionRequest sets the counted quantity at one location
type CorrectionRequest struct {
	MaterialID  string          `json:"material_id" binding:"required,uuid"`
	LocationID  string          `json:"location_id" binding:"required,uuid"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason" binding:"required,max=500"`
	PerformedBy string          `json:"performed_by" binding:"omitempty,uuid"`
}

// InitialIntakeRequest registers a new material with its first stock
type InitialIntakeRequest struct {
	MaterialNumber string          `json:"material_number" binding:"required,code,max=50"`
	Name           string          `json:"name" binding:"required,min=1,max=255"`
	Description    string          `json:"description" binding:"max=1000"`
	Unit           string          `json:"unit" binding:"required,min=1,max=30"`
	Category       string          `json:"category" binding:"required,min=1,max=100"`
	Condition      string          `json:"condition" binding:"max=100"`
	MinStock       decimal.Decimal `json:"min_stock"`
	LocationCode   string          `json:"location_code" binding:"required,code,max=50"`
	LocationName   string          `json:"location_name" binding:"max=255"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason" binding:"max=500"`
	PerformedBy    string          `json:"performed_by" binding:"omitempty,uuid"`
}

// Inbound books an external receipt into a location
func (h *MovementHandler) Inbound(c *gin.Context) {
	var req InboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appstock.InboundCommand{
		MaterialID:  uuid.MustParse(req.MaterialID),
		LocationID:  uuid.MustParse(req.LocationID),
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		PerformedBy: parsePerformer(req.PerformedBy),
	}

	movement, err := h.movementService.Inbound(c.Request.Context(), cmd)
	if err != nil {
		h.recordFailure(c, stock.MovementKindInbound, err)
		h.HandleDomainError(c, err)
		return
	}
	h.recordMovement(c, stock.MovementKindInbound)
	h.Created(c, movement)
}

// Outbound books an issue out of a location
func (h *MovementHandler) Outbound(c *gin.Context) {
	var req OutboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appstock.OutboundCommand{
		MaterialID:  uuid.MustParse(req.MaterialID),
		LocationID:  uuid.MustParse(req.LocationID),
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		PerformedBy: parsePerformer(req.PerformedBy),
	}

	movement, err := h.movementService.Outbound(c.Request.Context(), cmd)
	if err != nil {
		h.recordFailure(c, stock.MovementKindOutbound, err)
		h.HandleDomainError(c, err)
		return
	}
	h.recordMovement(c, stock.MovementKindOutbound)
	h.Created(c, movement)
}

// Transfer books a relocation between two locations as one ledger entry
func (h *MovementHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appstock.TransferCommand{
		MaterialID:     uuid.MustParse(req.MaterialID),
		FromLocationID: uuid.MustParse(req.FromLocationID),
		ToLocationID:   uuid.MustParse(req.ToLocationID),
		Quantity:       req.Quantity,
		Reason:         req.Reason,
		PerformedBy:    parsePerformer(req.PerformedBy),
	}

	movement, err := h.movementService.Transfer(c.Request.Context(), cmd)
	if err != nil {
		h.recordFailure(c, stock.MovementKindTransfer, err)
		h.HandleDomainError(c, err)
		return
	}
	h.recordMovement(c, stock.MovementKindTransfer)
	h.Created(c, movement)
}

// Correction books a count result, overriding the stored quantity
func (h *MovementHandler) Correction(c *gin.Context) {
	var req CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appstock.CorrectionCommand{
		MaterialID:  uuid.MustParse(req.MaterialID),
		LocationID:  uuid.MustParse(req.LocationID),
		NewQuantity: req.NewQuantity,
		Reason:      req.Reason,
		PerformedBy: parsePerformer(req.PerformedBy),
	}

	movement, err := h.movementService.Correction(c.Request.Context(), cmd)
	if err != nil {
		h.recordFailure(c, stock.MovementKindCorrection, err)
		h.HandleDomainError(c, err)
		return
	}
	h.recordMovement(c, stock.MovementKindCorrection)
	h.Created(c, movement)
}

// InitialIntake registers a material and its first stock in one transaction
func (h *MovementHandler) InitialIntake(c *gin.Context) {
	var req InitialIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appstock.InitialIntakeCommand{
		MaterialNumber: req.MaterialNumber,
		Name:           req.Name,
		Description:    req.Description,
		Unit:           req.Unit,
		Category:       req.Category,
		Condition:      req.Condition,
		MinStock:       req.MinStock,
		LocationCode:   req.LocationCode,
		LocationName:   req.LocationName,
		Quantity:       req.Quantity,
		Reason:         req.Reason,
		PerformedBy:    parsePerformer(req.PerformedBy),
	}

	movement, err := h.movementService.InitialIntake(c.Request.Context(), cmd)
	if err != nil {
		h.recordFailure(c, stock.MovementKindInitialIntake, err)
		h.HandleDomainError(c, err)
		return
	}
	h.recordMovement(c, stock.MovementKindInitialIntake)
	h.Created(c, movement)
}

// List returns the movement ledger, newest first
func (h *MovementHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.queryService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Stats returns ledger entry counts grouped by kind
func (h *MovementHandler) Stats(c *gin.Context) {
	stats, err := h.queryService.MovementStats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stats)
}

func (h *MovementHandler) recordMovement(c *gin.Context, kind stock.MovementKind) {
	if h.metrics != nil {
		h.metrics.RecordMovement(c.Request.Context(), string(kind))
	}
}

func (h *MovementHandler) recordFailure(c *gin.Context, kind stock.MovementKind, err error) {
	if h.metrics != nil {
		h.metrics.RecordMovementFailure(c.Request.Context(), string(kind), errorCode(err))
	}
}

// parsePerformer converts an optional validated UUID string
func parsePerformer(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id := uuid.MustParse(raw)
	return &id
}
