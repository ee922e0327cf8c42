package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadforge/internal/models"
	"leadforge/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
	// Settings supplies the saved filters used when the request omits them.
	Settings *services.SettingsService
}

func NewLeadHandler(service *services.LeadService, settings *services.SettingsService) *LeadHandler {
	return &LeadHandler{Service: service, Settings: settings}
}

// @Summary      List leads
// @Description  Filters, sorts and paginates the leads table. Omitted filter parameters take their value from the saved filters.
// @Tags         Leads
// @Produce      json
// @Param        search      query  string  false  "Substring of name or company"
// @Param        status      query  string  false  "Exact status"  Enums(New, Qualified, Hot, Converted)
// @Param        sort_by     query  string  false  "Sort field"    Enums(score, name, company)
// @Param        sort_order  query  string  false  "Sort order"    Enums(asc, desc)
// @Param        page        query  int     false  "Page (1-based)"
// @Param        page_size   query  int     false  "Page size"
// @Success      200  {object}  services.LeadPage
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	size, ok := queryInt(c, "page_size", services.DefaultPageSize)
	if !ok {
		return
	}
	saved := models.DefaultLeadFilters()
	if h.Settings != nil {
		saved = h.Settings.Filters(c.Request.Context())
	}
	q := services.QueryFromFilters(saved, page, size)
	if v, ok := c.GetQuery("search"); ok {
		q.Search = v
	}
	if v, ok := c.GetQuery("status"); ok {
		q.Status = v
	}
	if v, ok := c.GetQuery("sort_by"); ok {
		q.SortBy = models.SortField(v)
	}
	if v, ok := c.GetQuery("sort_order"); ok {
		q.SortOrder = models.SortOrder(v)
	}
	if q.SortOrder != models.SortAsc && q.SortOrder != models.SortDesc {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sort_order"})
		return
	}

	result, err := h.Service.Query(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary      Create lead
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        lead  body      models.CreateLeadRequest  true  "Lead"
// @Success      201   {object}  models.Lead
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req models.CreateLeadRequest
	if !bindJSON(c, &req, false) {
		return
	}
	lead, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// @Summary      Get lead
// @Tags         Leads
// @Produce      json
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  models.Lead
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	lead, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Update lead
// @Description  Partial update; status Converted is only reachable through conversion
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Lead ID"
// @Param        lead  body      models.UpdateLeadRequest  true  "Fields to change"
// @Success      200   {object}  models.Lead
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [patch]
func (h *LeadHandler) Update(c *gin.Context) {
	var req models.UpdateLeadRequest
	if !bindJSON(c, &req, false) {
		return
	}
	lead, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Delete lead
// @Tags         Leads
// @Param        id   path  string  true  "Lead ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Convert lead to opportunity
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true   "Lead ID"
// @Param        body  body      models.ConvertLeadRequest  false  "Optional amount"
// @Success      201   {object}  services.ConversionResult
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	var req models.ConvertLeadRequest
	if !bindJSON(c, &req, true) {
		return
	}
	res, err := h.Service.ConvertToOpportunity(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Opportunity of a converted lead
// @Tags         Leads
// @Produce      json
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  models.Opportunity
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/opportunity [get]
func (h *LeadHandler) GetOpportunity(c *gin.Context) {
	opp, err := h.Service.Opportunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}
