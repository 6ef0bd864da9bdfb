package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appstock "github.com/lager/backend/internal/application/stock"
)

// LocationHandler exposes storage location management
type LocationHandler struct {
	BaseHandler
	locationService *appstock.LocationService
	queryService    *appstock.QueryService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(
	locationService *appstock.LocationService,
	queryService *appstock.QueryService,
) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		queryService:    queryService,
	}
}

// RegisterRoutes registers location routes
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	locations := rg.Group("/stock/locations")
	{
		locations.POST("", h.Create)
		locations.GET("", h.List)
		locations.GET("/:id", h.Get)
		locations.GET("/:id/inventory", h.Inventory)
		locations.DELETE("/:id", h.Delete)
	}
}

// CreateLocationRequest registers a new storage location
type CreateLocationRequest struct {
	LocationCode string           `json:"location_code" binding:"required,code,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=255"`
	Type         string           `json:"type" binding:"max=100"`
	Capacity     *decimal.Decimal `json:"capacity"`
}

// Create registers a new location with a unique code
func (h *LocationHandler) Create(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), appstock.CreateLocationCommand{
		LocationCode: req.LocationCode,
		Name:         req.Name,
		Type:         req.Type,
		Capacity:     req.Capacity,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, location)
}

// List returns locations with pagination and optional search
func (h *LocationHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.locationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single location
func (h *LocationHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	location, err := h.locationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, location)
}

// Inventory returns all material positions held at one location
func (h *LocationHandler) Inventory(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	positions, err := h.queryService.GetInventoryByLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, positions)
}

// Delete removes a location. Locations still holding stock are refused.
func (h *LocationHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
