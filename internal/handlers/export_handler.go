package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadforge/internal/services"
)

type ExportHandler struct {
	Service *services.ExportService
}

func NewExportHandler(service *services.ExportService) *ExportHandler {
	return &ExportHandler{Service: service}
}

// @Summary      Export leads as CSV
// @Tags         Export
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      422  {object}  ErrorResponse  "no leads to export"
// @Security     BearerAuth
// @Router       /export/leads.csv [get]
func (h *ExportHandler) Leads(c *gin.Context) {
	exp, err := h.Service.ExportLeads(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sendCSV(c, exp)
}

// @Summary      Export opportunities as CSV
// @Tags         Export
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      422  {object}  ErrorResponse  "no opportunities to export"
// @Security     BearerAuth
// @Router       /export/opportunities.csv [get]
func (h *ExportHandler) Opportunities(c *gin.Context) {
	exp, err := h.Service.ExportOpportunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sendCSV(c, exp)
}

func sendCSV(c *gin.Context, exp *services.Export) {
	c.Header("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(exp.Content))
}
