package handler

import (
	allocationapp "github.com/fueltrade/backend/internal/application/allocation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AllocationHandler handles payment and advance allocation API endpoints
type AllocationHandler struct {
	BaseHandler
	allocationService *allocationapp.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *allocationapp.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// AllocatePayment godoc
// @ID           allocatePayment
// @Summary      Allocate an inflow entry across invoices
// @Description  All lines are applied atomically; any failing line rejects the whole batch
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        request body allocationapp.AllocatePaymentRequest true "Allocation batch"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/payments [post]
func (h *AllocationHandler) AllocatePayment(c *gin.Context) {
	var req allocationapp.AllocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocations, err := h.allocationService.AllocatePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, allocations)
}

// DeletePayment godoc
// @ID           deletePaymentAllocation
// @Summary      Remove a payment allocation
// @Description  Restores the pending amount on the affected sale
// @Tags         allocations
// @Param        id path string true "Allocation ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/payments/{id} [delete]
func (h *AllocationHandler) DeletePayment(c *gin.Context) {
	allocationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid allocation ID format")
		return
	}

	if err := h.allocationService.DeletePaymentAllocation(c.Request.Context(), allocationID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListPaymentsByEntry godoc
// @ID           listPaymentAllocationsByEntry
// @Summary      List payment allocations made from a cashbook entry
// @Tags         allocations
// @Produce      json
// @Param        entryId path string true "Cashbook entry ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/payments/entry/{entryId} [get]
func (h *AllocationHandler) ListPaymentsByEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	allocations, err := h.allocationService.ListPaymentAllocationsByEntry(c.Request.Context(), entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, allocations)
}

// ListPaymentsByInvoice godoc
// @ID           listPaymentAllocationsByInvoice
// @Summary      List payment allocations applied to an invoice
// @Tags         allocations
// @Produce      json
// @Param        invoiceId path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/payments/invoice/{invoiceId} [get]
func (h *AllocationHandler) ListPaymentsByInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("invoiceId"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	allocations, err := h.allocationService.ListPaymentAllocationsByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, allocations)
}

// AllocateAdvance godoc
// @ID           allocateAdvance
// @Summary      Allocate an outflow entry across stock lots as supplier advances
// @Description  All lines are applied atomically; any failing line rejects the whole batch
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        request body allocationapp.AllocateAdvanceRequest true "Advance batch"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/advances [post]
func (h *AllocationHandler) AllocateAdvance(c *gin.Context) {
	var req allocationapp.AllocateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocations, err := h.allocationService.AllocateAdvance(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, allocations)
}

// DeleteAdvance godoc
// @ID           deleteAdvanceAllocation
// @Summary      Remove a supplier advance allocation
// @Description  Reduces the advance paid on the affected lot
// @Tags         allocations
// @Param        id path string true "Allocation ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/advances/{id} [delete]
func (h *AllocationHandler) DeleteAdvance(c *gin.Context) {
	allocationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid allocation ID format")
		return
	}

	if err := h.allocationService.DeleteAdvanceAllocation(c.Request.Context(), allocationID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListAdvancesByLot godoc
// @ID           listAdvancesByLot
// @Summary      List supplier advances applied to a stock lot
// @Tags         allocations
// @Produce      json
// @Param        lotId path string true "Stock lot ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /allocations/advances/lot/{lotId} [get]
func (h *AllocationHandler) ListAdvancesByLot(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lotId"))
	if err != nil {
		h.BadRequest(c, "Invalid stock lot ID format")
		return
	}

	allocations, err := h.allocationService.ListAdvancesByLot(c.Request.Context(), lotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, allocations)
}
