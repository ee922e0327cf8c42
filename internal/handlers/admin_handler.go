package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadforge/internal/services"
)

type AdminHandler struct {
	Settings *services.SettingsService
	Seeder   *services.DataSeeder
}

func NewAdminHandler(settings *services.SettingsService, seeder *services.DataSeeder) *AdminHandler {
	return &AdminHandler{Settings: settings, Seeder: seeder}
}

// @Summary      Clear all data
// @Description  Removes leads, opportunities and saved settings
// @Tags         Admin
// @Success      204
// @Failure      500  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /admin/clear [post]
func (h *AdminHandler) Clear(c *gin.Context) {
	if err := h.Settings.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Seed demo data
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  services.SeedResult
// @Security     BearerAuth
// @Router       /admin/seed [post]
func (h *AdminHandler) Seed(c *gin.Context) {
	res, err := h.Seeder.Seed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
