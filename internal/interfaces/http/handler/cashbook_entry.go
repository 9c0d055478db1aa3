package handler

import (
	cashbookapp "github.com/fueltrade/backend/internal/application/cashbook"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryHandler handles cashbook entry API endpoints
type EntryHandler struct {
	BaseHandler
	entryService *cashbookapp.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *cashbookapp.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// Create godoc
// @ID           createCashbookEntry
// @Summary      Record a cashbook entry
// @Description  Direction is derived from the entry kind except for OTHER entries
// @Tags         cashbook
// @Accept       json
// @Produce      json
// @Param        request body cashbookapp.CreateEntryRequest true "Cashbook entry"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req cashbookapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID godoc
// @ID           getCashbookEntryById
// @Summary      Get a cashbook entry by ID
// @Tags         cashbook
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/entries/{id} [get]
func (h *EntryHandler) GetByID(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @ID           listCashbookEntries
// @Summary      List cashbook entries
// @Tags         cashbook
// @Produce      json
// @Param        kind query string false "Entry kind" Enums(INVOICE, INVESTMENT, SUPPLIER_PAYMENT, EXPENSE, WITHDRAWAL, OTHER)
// @Param        direction query string false "Direction" Enums(INFLOW, OUTFLOW)
// @Param        account_head_id query string false "Account head ID" format(uuid)
// @Param        pending query bool false "Pending (cheque not yet settled)"
// @Param        from_date query string false "Transaction date lower bound" format(date-time)
// @Param        to_date query string false "Transaction date upper bound" format(date-time)
// @Param        search query string false "Search term (counterparty, notes)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	var filter cashbookapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	entries, total, err := h.entryService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCashbookEntry
// @Summary      Correct a cashbook entry
// @Description  Rejected once allocations exist against the entry
// @Tags         cashbook
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Param        request body cashbookapp.UpdateEntryRequest true "Corrected values"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/entries/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	var req cashbookapp.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), entryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Delete godoc
// @ID           deleteCashbookEntry
// @Summary      Delete a cashbook entry
// @Description  With cascade=true its allocations are removed and the affected sales and lots rolled back in the same transaction
// @Tags         cashbook
// @Param        id path string true "Entry ID" format(uuid)
// @Param        cascade query bool false "Also remove allocations made from this entry" default(false)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	cascade := c.Query("cascade") == "true"

	if err := h.entryService.DeleteEntry(c.Request.Context(), entryID, cascade); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary godoc
// @ID           getCashbookSummary
// @Summary      Cashbook totals by direction
// @Tags         cashbook
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/summary [get]
func (h *EntryHandler) Summary(c *gin.Context) {
	summary, err := h.entryService.GetSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
