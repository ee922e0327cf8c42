package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leadforge/internal/pdf"
	"leadforge/internal/services"
)

type ReportHandler struct {
	Service *services.AnalyticsService
	PDF     pdf.Generator
}

func NewReportHandler(service *services.AnalyticsService, gen pdf.Generator) *ReportHandler {
	return &ReportHandler{Service: service, PDF: gen}
}

// @Summary      Analytics summary
// @Description  Aggregates computed from the current leads and opportunities
// @Tags         Analytics
// @Produce      json
// @Success      200  {object}  services.Stats
// @Security     BearerAuth
// @Router       /analytics/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	data, err := h.Service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Pipeline report
// @Tags         Analytics
// @Produce      application/pdf
// @Success      200  {file}  file
// @Security     BearerAuth
// @Router       /analytics/report.pdf [get]
func (h *ReportHandler) GetPDF(c *gin.Context) {
	data, err := h.Service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now()
	var buf bytes.Buffer
	if err := h.PDF.Render(&buf, data, now); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+pdf.ReportFilename(now)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
