package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadforge/internal/models"
	"leadforge/internal/services"
	"leadforge/internal/state"
)

type SettingsHandler struct {
	Service *services.SettingsService
}

func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Service: service}
}

// DispatchRequest carries a reducer action and the page the client is on.
type DispatchRequest struct {
	Action   state.Action `json:"action"`
	Page     int          `json:"page" example:"1"`
	PageSize int          `json:"pageSize" example:"10"`
}

type ThemeRequest struct {
	Theme models.Theme `json:"theme" example:"dark"`
}

// @Summary      Saved lead filters
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  models.LeadFilters
// @Security     BearerAuth
// @Router       /settings/filters [get]
func (h *SettingsHandler) GetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Filters(c.Request.Context()))
}

// @Summary      Save lead filters
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        filters  body      models.LeadFilters  true  "Filters"
// @Success      200      {object}  models.LeadFilters
// @Failure      400      {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /settings/filters [put]
func (h *SettingsHandler) PutFilters(c *gin.Context) {
	var f models.LeadFilters
	if !bindJSON(c, &f, false) {
		return
	}
	saved, err := h.Service.SaveFilters(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// @Summary      UI state
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  models.UIState
// @Security     BearerAuth
// @Router       /settings/ui [get]
func (h *SettingsHandler) GetUI(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.UI(c.Request.Context()))
}

// @Summary      Save UI state
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        ui   body      models.UIState  true  "UI state"
// @Success      200  {object}  models.UIState
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /settings/ui [put]
func (h *SettingsHandler) PutUI(c *gin.Context) {
	var st models.UIState
	if !bindJSON(c, &st, false) {
		return
	}
	saved, err := h.Service.SaveUI(c.Request.Context(), st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// @Summary      Apply a UI action
// @Description  Runs the view-state reducer and persists the result
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        body  body      DispatchRequest  true  "Action"
// @Success      200   {object}  state.State
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /settings/ui/actions [post]
func (h *SettingsHandler) Dispatch(c *gin.Context) {
	var req DispatchRequest
	if !bindJSON(c, &req, false) {
		return
	}
	next, err := h.Service.Dispatch(c.Request.Context(), req.Page, req.PageSize, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

// @Summary      Theme
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  ThemeRequest
// @Security     BearerAuth
// @Router       /settings/theme [get]
func (h *SettingsHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, ThemeRequest{Theme: h.Service.Theme(c.Request.Context())})
}

// @Summary      Save theme
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        body  body      ThemeRequest  true  "Theme"
// @Success      200   {object}  ThemeRequest
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /settings/theme [put]
func (h *SettingsHandler) PutTheme(c *gin.Context) {
	var req ThemeRequest
	if !bindJSON(c, &req, false) {
		return
	}
	if err := h.Service.SaveTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
