package handler

import (
	cashbookapp "github.com/fueltrade/backend/internal/application/cashbook"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHeadHandler handles account head API endpoints
type AccountHeadHandler struct {
	BaseHandler
	headService *cashbookapp.AccountHeadService
}

// NewAccountHeadHandler creates a new AccountHeadHandler
func NewAccountHeadHandler(headService *cashbookapp.AccountHeadService) *AccountHeadHandler {
	return &AccountHeadHandler{headService: headService}
}

// Create godoc
// @ID           createAccountHead
// @Summary      Create an account head
// @Tags         cashbook
// @Accept       json
// @Produce      json
// @Param        request body cashbookapp.CreateAccountHeadRequest true "Account head"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/heads [post]
func (h *AccountHeadHandler) Create(c *gin.Context) {
	var req cashbookapp.CreateAccountHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	head, err := h.headService.CreateAccountHead(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, head)
}

// GetByID godoc
// @ID           getAccountHeadById
// @Summary      Get an account head by ID
// @Tags         cashbook
// @Produce      json
// @Param        id path string true "Account head ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/heads/{id} [get]
func (h *AccountHeadHandler) GetByID(c *gin.Context) {
	headID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account head ID format")
		return
	}

	head, err := h.headService.GetAccountHeadByID(c.Request.Context(), headID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, head)
}

// List godoc
// @ID           listAccountHeads
// @Summary      List account heads
// @Tags         cashbook
// @Produce      json
// @Param        kind query string false "Account head kind" Enums(CLIENT, SUPPLIER, OTHER)
// @Param        search query string false "Search term (name, phone)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(asc)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/heads [get]
func (h *AccountHeadHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	heads, total, err := h.headService.ListAccountHeads(c.Request.Context(), c.Query("kind"), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, heads, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateAccountHead
// @Summary      Update an account head
// @Tags         cashbook
// @Accept       json
// @Produce      json
// @Param        id path string true "Account head ID" format(uuid)
// @Param        request body cashbookapp.UpdateAccountHeadRequest true "Updated values"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/heads/{id} [put]
func (h *AccountHeadHandler) Update(c *gin.Context) {
	headID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account head ID format")
		return
	}

	var req cashbookapp.UpdateAccountHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	head, err := h.headService.UpdateAccountHead(c.Request.Context(), headID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, head)
}

// Delete godoc
// @ID           deleteAccountHead
// @Summary      Delete an account head
// @Description  Rejected while cashbook entries still reference it
// @Tags         cashbook
// @Param        id path string true "Account head ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /cashbook/heads/{id} [delete]
func (h *AccountHeadHandler) Delete(c *gin.Context) {
	headID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account head ID format")
		return
	}

	if err := h.headService.DeleteAccountHead(c.Request.Context(), headID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
