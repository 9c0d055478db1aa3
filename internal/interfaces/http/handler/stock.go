package handler

import (
	stockapp "github.com/fueltrade/backend/internal/application/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock lot API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Create godoc
// @ID           createStockLot
// @Summary      Record a fuel purchase lot
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.CreateStockLotRequest true "Purchase lot"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /stock/lots [post]
func (h *StockHandler) Create(c *gin.Context) {
	var req stockapp.CreateStockLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lot, err := h.stockService.CreateStockLot(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, lot)
}

// GetByID godoc
// @ID           getStockLotById
// @Summary      Get a stock lot by ID
// @Tags         stock
// @Produce      json
// @Param        id path string true "Stock lot ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /stock/lots/{id} [get]
func (h *StockHandler) GetByID(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock lot ID format")
		return
	}

	lot, err := h.stockService.GetStockLotByID(c.Request.Context(), lotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lot)
}

// List godoc
// @ID           listStockLots
// @Summary      List stock lots
// @Tags         stock
// @Produce      json
// @Param        search query string false "Search term (supplier name, notes)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(purchase_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /stock/lots [get]
func (h *StockHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lots, total, err := h.stockService.ListStockLots(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, lots, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateStockLot
// @Summary      Correct a recorded purchase lot
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock lot ID" format(uuid)
// @Param        request body stockapp.UpdateStockLotRequest true "Corrected values"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /stock/lots/{id} [put]
func (h *StockHandler) Update(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock lot ID format")
		return
	}

	var req stockapp.UpdateStockLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lot, err := h.stockService.UpdateStockLot(c.Request.Context(), lotID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lot)
}

// Delete godoc
// @ID           deleteStockLot
// @Summary      Delete a purchase lot
// @Tags         stock
// @Param        id path string true "Stock lot ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /stock/lots/{id} [delete]
func (h *StockHandler) Delete(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock lot ID format")
		return
	}

	if err := h.stockService.DeleteStockLot(c.Request.Context(), lotID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary godoc
// @ID           getStockSummary
// @Summary      Current stock position
// @Description  Current stock level, totals and weighted-average cost
// @Tags         stock
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /stock/summary [get]
func (h *StockHandler) Summary(c *gin.Context) {
	summary, err := h.stockService.GetStockSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
