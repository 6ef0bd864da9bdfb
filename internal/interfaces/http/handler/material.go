package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/lager/backend/internal/application/stock"
)

// MaterialHandler exposes the material read views
type MaterialHandler struct {
	BaseHandler
	queryService *appstock.QueryService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(queryService *appstock.QueryService) *MaterialHandler {
	return &MaterialHandler{queryService: queryService}
}

// RegisterRoutes registers material routes
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock/inventory", h.ListInventory)

	materials := rg.Group("/stock/materials")
	{
		materials.GET("", h.List)
		materials.GET("/low-stock", h.ListLowStock)
		materials.GET("/by-number/:number", h.GetByNumber)
		materials.GET("/:id", h.Get)
		materials.GET("/:id/movements", h.ListMovements)
	}
}

// List returns materials with pagination and optional search over
// material number and name
func (h *MaterialHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.queryService.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListInventory returns materials currently carrying stock with the
// number of locations holding each
func (h *MaterialHandler) ListInventory(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.queryService.ListInventory(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one material together with its per-location positions
func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid material ID")
		return
	}

	detail, err := h.queryService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// GetByNumber returns one material looked up by its material number
func (h *MaterialHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Material number is required")
		return
	}

	detail, err := h.queryService.GetMaterialByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// ListMovements returns the ledger entries of one material, newest first
func (h *MaterialHandler) ListMovements(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid material ID")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.queryService.ListMovementsByMaterial(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListLowStock returns materials whose aggregate stock is below their minimum
func (h *MaterialHandler) ListLowStock(c *gin.Context) {
	materials, err := h.queryService.ListLowStock(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, materials)
}
