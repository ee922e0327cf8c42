package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadforge/internal/models"
	"leadforge/internal/services"
)

type OpportunityHandler struct {
	Service *services.OpportunityService
}

func NewOpportunityHandler(service *services.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{Service: service}
}

// @Summary      List opportunities
// @Tags         Opportunities
// @Produce      json
// @Success      200  {array}  models.Opportunity
// @Security     BearerAuth
// @Router       /opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	opps, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opps)
}

// @Summary      Create opportunity
// @Tags         Opportunities
// @Accept       json
// @Produce      json
// @Param        opportunity  body      models.CreateOpportunityRequest  true  "Opportunity"
// @Success      201          {object}  models.Opportunity
// @Failure      400          {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req models.CreateOpportunityRequest
	if !bindJSON(c, &req, false) {
		return
	}
	opp, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

// @Summary      Get opportunity
// @Tags         Opportunities
// @Produce      json
// @Param        id   path      string  true  "Opportunity ID"
// @Success      200  {object}  models.Opportunity
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [get]
func (h *OpportunityHandler) GetByID(c *gin.Context) {
	opp, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// @Summary      Update opportunity
// @Description  Closed Won and Closed Lost are final stages
// @Tags         Opportunities
// @Accept       json
// @Produce      json
// @Param        id           path      string                           true  "Opportunity ID"
// @Param        opportunity  body      models.UpdateOpportunityRequest  true  "Fields to change"
// @Success      200          {object}  models.Opportunity
// @Failure      400          {object}  ErrorResponse
// @Failure      404          {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [patch]
func (h *OpportunityHandler) Update(c *gin.Context) {
	var req models.UpdateOpportunityRequest
	if !bindJSON(c, &req, false) {
		return
	}
	opp, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// @Summary      Delete opportunity
// @Tags         Opportunities
// @Param        id   path  string  true  "Opportunity ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
