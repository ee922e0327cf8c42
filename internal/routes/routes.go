package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"leadforge/internal/authz"
	"leadforge/internal/handlers"
	"leadforge/internal/middleware"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Leads         *handlers.LeadHandler
	Opportunities *handlers.OpportunityHandler
	Reports       *handlers.ReportHandler
	Export        *handlers.ExportHandler
	Settings      *handlers.SettingsHandler
	Notifications *handlers.NotificationHandler
	Admin         *handlers.AdminHandler
}

type AuthOptions struct {
	Secret  []byte
	Enabled bool
}

func SetupRoutes(r *gin.Engine, h Handlers, auth AuthOptions) *gin.Engine {
	// ---- public
	r.POST("/login", h.Auth.Login)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(auth.Secret, auth.Enabled))
	api.Use(middleware.ReadOnlyGuard())

	api.GET("/me", h.Auth.Me)

	// LEADS
	leads := api.Group("/leads")
	{
		leads.GET("", h.Leads.List)
		leads.POST("", h.Leads.Create)
		leads.GET("/:id", h.Leads.GetByID)
		leads.PATCH("/:id", h.Leads.Update)
		leads.DELETE("/:id", h.Leads.Delete)
		leads.POST("/:id/convert", h.Leads.Convert)
		leads.GET("/:id/opportunity", h.Leads.GetOpportunity)
	}

	// OPPORTUNITIES
	opps := api.Group("/opportunities")
	{
		opps.GET("", h.Opportunities.List)
		opps.POST("", h.Opportunities.Create)
		opps.GET("/:id", h.Opportunities.GetByID)
		opps.PATCH("/:id", h.Opportunities.Update)
		opps.DELETE("/:id", h.Opportunities.Delete)
	}

	// ANALYTICS
	analytics := api.Group("/analytics")
	{
		analytics.GET("/summary", h.Reports.GetSummary)
		analytics.GET("/report.pdf", h.Reports.GetPDF)
	}

	// EXPORT
	export := api.Group("/export")
	{
		export.GET("/leads.csv", h.Export.Leads)
		export.GET("/opportunities.csv", h.Export.Opportunities)
	}

	// SETTINGS
	settings := api.Group("/settings")
	{
		settings.GET("/filters", h.Settings.GetFilters)
		settings.PUT("/filters", h.Settings.PutFilters)
		settings.GET("/ui", h.Settings.GetUI)
		settings.PUT("/ui", h.Settings.PutUI)
		settings.POST("/ui/actions", h.Settings.Dispatch)
		settings.GET("/theme", h.Settings.GetTheme)
		settings.PUT("/theme", h.Settings.PutTheme)
	}

	// NOTIFICATIONS
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.DELETE("/:id", h.Notifications.Dismiss)
		notifications.GET("/ws", h.Notifications.Stream)
	}

	// ADMIN (editors only)
	admin := api.Group("/admin", middleware.RequireRoles(authz.RoleEditor))
	{
		admin.POST("/clear", h.Admin.Clear)
		admin.POST("/seed", h.Admin.Seed)
	}

	return r
}
