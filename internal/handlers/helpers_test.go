package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"leadforge/internal/pdf"
	"leadforge/internal/realtime"
	"leadforge/internal/repositories"
	"leadforge/internal/services"
	"leadforge/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	feed   *services.ToastFeed
	hub    *realtime.NotificationHub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := storage.NewStore(storage.NewMemoryKV(), log)
	leadRepo := repositories.NewLeadRepository(store, repositories.NoLatency)
	oppRepo := repositories.NewOpportunityRepository(store, repositories.NoLatency)
	feed := services.NewToastFeed(time.Minute)
	hub := realtime.NewNotificationHub(log)
	notifier := services.NewFanout(log,
		services.Channel{Name: "toast", Notifier: feed},
		services.Channel{Name: "realtime", Notifier: hub},
	)

	settings := services.NewSettingsService(store)
	leadH := NewLeadHandler(services.NewLeadService(leadRepo, oppRepo, notifier, log), settings)
	oppH := NewOpportunityHandler(services.NewOpportunityService(oppRepo, leadRepo, notifier, log))
	reportH := NewReportHandler(services.NewAnalyticsService(leadRepo, oppRepo), pdf.NewReportGenerator(t.TempDir(), ""))
	exportH := NewExportHandler(services.NewExportService(leadRepo, oppRepo))
	settingsH := NewSettingsHandler(settings)
	notifH := NewNotificationHandler(feed, hub)
	adminH := NewAdminHandler(settings, services.NewDataSeeder(leadRepo, oppRepo, log))

	r := gin.New()
	r.GET("/leads", leadH.List)
	r.POST("/leads", leadH.Create)
	r.GET("/leads/:id", leadH.GetByID)
	r.PATCH("/leads/:id", leadH.Update)
	r.DELETE("/leads/:id", leadH.Delete)
	r.POST("/leads/:id/convert", leadH.Convert)
	r.GET("/leads/:id/opportunity", leadH.GetOpportunity)
	r.GET("/opportunities", oppH.List)
	r.POST("/opportunities", oppH.Create)
	r.GET("/opportunities/:id", oppH.GetByID)
	r.PATCH("/opportunities/:id", oppH.Update)
	r.DELETE("/opportunities/:id", oppH.Delete)
	r.GET("/analytics/summary", reportH.GetSummary)
	r.GET("/analytics/report.pdf", reportH.GetPDF)
	r.GET("/export/leads.csv", exportH.Leads)
	r.GET("/export/opportunities.csv", exportH.Opportunities)
	r.GET("/settings/filters", settingsH.GetFilters)
	r.PUT("/settings/filters", settingsH.PutFilters)
	r.GET("/settings/ui", settingsH.GetUI)
	r.PUT("/settings/ui", settingsH.PutUI)
	r.POST("/settings/ui/actions", settingsH.Dispatch)
	r.GET("/settings/theme", settingsH.GetTheme)
	r.PUT("/settings/theme", settingsH.PutTheme)
	r.GET("/notifications", notifH.List)
	r.DELETE("/notifications/:id", notifH.Dismiss)
	r.GET("/notifications/ws", notifH.Stream)
	r.POST("/admin/clear", adminH.Clear)
	r.POST("/admin/seed", adminH.Seed)

	return &testServer{router: r, feed: feed, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func leadBody() map[string]any {
	return map[string]any{
		"name":    "Jane Doe",
		"company": "Acme Corp",
		"email":   "jane@acme.io",
		"source":  "Website",
		"score":   75,
		"status":  "Hot",
	}
}
