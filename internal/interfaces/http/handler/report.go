package handler

import (
	"strconv"

	reportapp "github.com/fueltrade/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Overview godoc
// @ID           getReportOverview
// @Summary      Business overview
// @Description  Stock position, receivables, cash balances and profit figures in one response
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/overview [get]
func (h *ReportHandler) Overview(c *gin.Context) {
	overview, err := h.reportService.GetOverview(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, overview)
}

// OverdueClients godoc
// @ID           getOverdueClients
// @Summary      Clients with invoices past the payment terms
// @Tags         reports
// @Produce      json
// @Param        threshold_days query int false "Override the configured payment terms" minimum(1)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/overdue-clients [get]
func (h *ReportHandler) OverdueClients(c *gin.Context) {
	thresholdDays := 0
	if raw := c.Query("threshold_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "threshold_days must be a positive integer")
			return
		}
		thresholdDays = parsed
	}

	clients, err := h.reportService.GetOverdueClients(c.Request.Context(), thresholdDays)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, clients)
}
